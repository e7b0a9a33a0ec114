// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta "Galería": tonos de pigmento clásico sobre fondo neutro

var (
	// Ochre - pigmento principal, headers
	Ochre = pterm.NewRGB(204, 119, 34)

	// Vermilion - errores
	Vermilion = pterm.NewRGB(227, 66, 52)

	// GoldLeaf - warnings y timeouts
	GoldLeaf = pterm.NewRGB(212, 175, 55)

	// Verdigris - éxito
	Verdigris = pterm.NewRGB(67, 179, 174)

	// UltramarineBlue - fuentes en curso
	UltramarineBlue = pterm.NewRGB(65, 102, 245)

	// Charcoal - texto secundario, pendientes
	Charcoal = pterm.NewRGB(110, 110, 110)
)

// Estilos preconfigurados
var (
	StylePrimary   = Ochre.ToRGBStyle()
	StyleSuccess   = Verdigris.ToRGBStyle()
	StyleWarning   = GoldLeaf.ToRGBStyle()
	StyleError     = Vermilion.ToRGBStyle()
	StyleActive    = UltramarineBlue.ToRGBStyle()
	StyleSecondary = Charcoal.ToRGBStyle()
)

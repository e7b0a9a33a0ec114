// internal/platform/ui/notifier.go
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
)

// TerminalNotifier implementa ports.Notifier pintando el progreso de cada
// fuente en la terminal: spinners pterm mientras corre y una línea final con
// su estado, más un panel resumen al terminar la búsqueda.
type TerminalNotifier struct {
	mu sync.Mutex
	w  io.Writer

	// Spinners activos por source (solo si useSpinners)
	useSpinners bool
	spinners    map[domain.Source]*pterm.SpinnerPrinter

	// Estado por source de la búsqueda en curso
	states map[domain.Source]Status

	closed bool
}

// NewTerminalNotifier crea un notifier que escribe en w.
// Con spinners=true cada fuente en curso muestra un spinner animado;
// úsalo solo cuando w es la terminal de pterm.
func NewTerminalNotifier(w io.Writer, spinners bool) *TerminalNotifier {
	return &TerminalNotifier{
		w:           w,
		useSpinners: spinners,
		spinners:    make(map[domain.Source]*pterm.SpinnerPrinter),
		states:      make(map[domain.Source]Status),
	}
}

// Notify pinta el evento. Nunca falla: la presentación no debe romper la búsqueda.
func (n *TerminalNotifier) Notify(_ context.Context, event ports.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}

	switch event.Type {
	case ports.EventTypeSourceStarted:
		n.startSource(event.Source)

	case ports.EventTypeSourceCompleted:
		data, _ := event.Data.(ports.SourceCompletedEvent)
		detail := fmt.Sprintf("(%s) %s %s", formatDuration(data.Duration), IconArtworks, plural(data.Count, "artwork"))
		n.finishSource(event.Source, StatusSuccess, detail)

	case ports.EventTypeSourceFailed:
		data, _ := event.Data.(ports.SourceFailedEvent)
		n.finishSource(event.Source, StatusError, fmt.Sprintf("(%s) %s", formatDuration(data.Duration), errText(data.Err)))

	case ports.EventTypeSourceTimeout:
		data, _ := event.Data.(ports.SourceFailedEvent)
		n.finishSource(event.Source, StatusWarning, fmt.Sprintf("timed out after %s", formatDuration(data.Duration)))

	case ports.EventTypeSearchCompleted:
		if data, ok := event.Data.(ports.SearchCompletedEvent); ok {
			n.summary(data)
		}
		n.states = make(map[domain.Source]Status)
	}
	return nil
}

// Close detiene los spinners activos.
func (n *TerminalNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopSpinners()
	n.closed = true
	return nil
}

// State devuelve el último estado conocido de src en la búsqueda en curso.
func (n *TerminalNotifier) State(src domain.Source) Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.states[src]
}

func (n *TerminalNotifier) startSource(src domain.Source) {
	// El evento de fin puede llegar antes que el de inicio
	if st, ok := n.states[src]; ok && st != StatusRunning {
		return
	}
	n.states[src] = StatusRunning

	text := fmt.Sprintf("  %s Searching %s...", StatusRunning.Symbol(), src.DisplayName())
	if n.useSpinners {
		spinner, err := pterm.DefaultSpinner.
			WithSequence("⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷").
			WithRemoveWhenDone(true).
			Start(text)
		if err == nil {
			n.spinners[src] = spinner
			return
		}
	}
	fmt.Fprintln(n.w, StatusRunning.Style().Sprint(text))
}

func (n *TerminalNotifier) finishSource(src domain.Source, status Status, detail string) {
	n.states[src] = status

	if spinner, ok := n.spinners[src]; ok {
		spinner.Stop()
		delete(n.spinners, src)
	}

	line := fmt.Sprintf("  %s %s %s", status.Symbol(), src.DisplayName(), detail)
	fmt.Fprintln(n.w, status.Style().Sprint(line))
}

func (n *TerminalNotifier) summary(data ports.SearchCompletedEvent) {
	n.stopSpinners()

	var b strings.Builder
	query := data.Query
	if query == "" {
		query = "(any)"
	}
	fmt.Fprintf(&b, "%s Query: %s\n", IconSearch, query)
	fmt.Fprintf(&b, "%s Sources: %s\n", IconSources, joinSources(data.Sources))
	fmt.Fprintf(&b, "%s Artworks: %d\n", IconArtworks, data.Count)
	fmt.Fprintf(&b, "%s Duration: %s", IconTime, formatDuration(data.Duration))
	if len(data.Failed) > 0 {
		fmt.Fprintf(&b, "\n%s Failed: %s", StatusError.Symbol(), joinSources(data.Failed))
	}
	if len(data.TimedOut) > 0 {
		fmt.Fprintf(&b, "\n%s Timed out: %s", StatusWarning.Symbol(), joinSources(data.TimedOut))
	}

	box := pterm.DefaultBox.
		WithTitle("Search Summary").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		Sprint(b.String())

	fmt.Fprintln(n.w)
	fmt.Fprintln(n.w, box)
}

func (n *TerminalNotifier) stopSpinners() {
	for src, spinner := range n.spinners {
		spinner.Stop()
		delete(n.spinners, src)
	}
}

func joinSources(sources []domain.Source) string {
	if len(sources) == 0 {
		return "none"
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func errText(err error) string {
	if err == nil {
		return "failed"
	}
	return err.Error()
}

var _ ports.Notifier = (*TerminalNotifier)(nil)

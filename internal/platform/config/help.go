// internal/platform/config/help.go
package config

import (
	"fmt"
	"io"
	"runtime"
)

const helpText = `
CuratorX - Museum Artwork Aggregator

USAGE:
  curatorx <command> [options] [args]

COMMANDS:
  search <text>            Search artworks across the selected museums
  fetch <source:id>        Fetch one artwork by its global id (e.g. met:436535)
  facets [text]            List facet values (vam: material, technique, place)
  departments              List collection departments (met)
  sources                  List registered sources and their state

IMPORTANT:
  Use double dash (--) for long flag names: --sources, --page-size
  Use single dash (-) for short flags: -s, -n

CORE OPTIONS:
  -c, --config string      YAML configuration file
      --env-file string    .env file loaded before environment variables (default: ".env")
  -l, --log-level string   Log level: debug, info, warn, error (default: "info")
  -T, --timeout int        Global timeout in seconds, 0=no timeout (default: 60)
  -j, --json               Print JSON instead of a table
  -q, --quiet              Disable per-source progress output
  -o, --out string         Also save results as JSON under this directory

SEARCH OPTIONS:
  -s, --sources string     "all" or a comma-separated list: met,rijks,vam,harvard (default: "all")
  -p, --page int           Result page, 1-based (default: 1)
  -n, --page-size int      Artworks per page (default: 20, max: 100)
      --has-images         Only artworks with images
      --highlights         Only highlighted artworks (met)
      --department-id int  Department filter (met)
      --department string  Department filter (harvard)
      --maker string       Maker filter (rijks, vam, harvard)
      --type string        Object type filter (rijks)
      --material string    Material filter (rijks, vam)
      --technique string   Technique filter (rijks, vam)
      --date-begin int     Earliest year
      --date-end int       Latest year
      --source-timeout d   Upper bound for one source's search (default: 20s)

FACET OPTIONS:
      --facet string       Facet type: material, technique, place (default: "material")
      --facet-size int     Number of values (default: 20)

SOURCE OPTIONS:
  --src.met                    Enable The Met (default: true)
  --src.met.priority int       Set The Met priority (default: 10)

  --src.rijks                  Enable Rijksmuseum linked-data source (default: true)
  --src.rijks.priority int     Set Rijksmuseum priority (default: 8)

  --src.vam                    Enable Victoria and Albert Museum (default: true)
  --src.vam.priority int       Set V&A priority (default: 6)

  --src.harvard                Enable Harvard Art Museums (default: true, needs credentials)
  --src.harvard.priority int   Set Harvard priority (default: 4)

RESILIENCE OPTIONS:
  --resilience.max-failures int   Consecutive failures that open the circuit (default: 5)
  --resilience.cooldown d         Circuit breaker cooldown (default: 1m0s)

INFO:
  -v, --version            Print version information and exit
  -h, --help               Show this help message

EXAMPLES:
  Search every museum:
    curatorx search sunflowers

  Second page of The Met and V&A results as JSON:
    curatorx search "blue vase" -s met,vam -p 2 -n 10 --json

  Paintings with images from the 17th century:
    curatorx search portrait --has-images --date-begin 1600 --date-end 1699

  One artwork:
    curatorx fetch rijks:SK-C-5

  V&A materials matching "silk":
    curatorx facets silk --facet material

ENVIRONMENT VARIABLES:
  Most flags can be set via environment variables with CURATORX_ prefix:

  CURATORX_LOG_LEVEL=debug          Log level
  CURATORX_TIMEOUT=120              Timeout in seconds
  CURATORX_JSON=true                JSON output
  CURATORX_OUTPUT_DIR=/path         Save results as JSON
  CURATORX_SOURCES=met,vam          Source selector
  CURATORX_SOURCE_TIMEOUT=10s       Per-source search timeout
  CURATORX_PAGE_SIZE=25             Default page size
  CURATORX_BATCH_SIZE=80            Object fetch batch size

  Source-specific (replace HARVARD with source name):
  CURATORX_SOURCES_HARVARD_ENABLED=false
  CURATORX_SOURCES_HARVARD_PRIORITY=20
  CURATORX_SOURCES_HARVARD_API_KEY=...
  CURATORX_SOURCES_HARVARD_USERNAME=...
  CURATORX_SOURCES_HARVARD_PASSWORD=...

  Variables are also read from the --env-file (default ".env") if present.
  Note: CLI flags override environment variables, which override the YAML file.
`

// WriteHelp escribe la ayuda en w.
func WriteHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// WriteVersion escribe la información de versión en w.
func WriteVersion(w io.Writer, version, commit, date string) {
	fmt.Fprintf(w, "CuratorX %s\n", version)
	fmt.Fprintf(w, "  Commit:  %s\n", commit)
	fmt.Fprintf(w, "  Built:   %s\n", date)
	fmt.Fprintf(w, "  Go:      %s\n", getGoVersion())
}

func getGoVersion() string {
	return runtime.Version()
}

// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/batch"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/resilience"
)

// EnvPrefix prefija todas las variables de entorno.
const EnvPrefix = "CURATORX_"

// Subcomandos del CLI.
const (
	CommandSearch      = "search"
	CommandFetch       = "fetch"
	CommandFacets      = "facets"
	CommandDepartments = "departments"
	CommandSources     = "sources"
)

// Commands lista los subcomandos válidos.
var Commands = []string{CommandSearch, CommandFetch, CommandFacets, CommandDepartments, CommandSources}

type Config struct {
	// Core opciones de la aplicación
	Core CoreConfig `yaml:"core"`

	// Request petición del subcomando (consulta, paginación, facet); solo CLI
	Request Request `yaml:"-"`

	// Sources: mapa de configuraciones por source
	// Key = source tag ("met", "rijks", "vam", "harvard")
	Sources map[string]ports.SourceConfig `yaml:"sources"`

	// Resilience umbrales del circuit breaker y reintentos por ítem
	Resilience resilience.Config `yaml:"resilience"`

	// Batch umbrales del orquestador de lotes
	Batch batch.Config `yaml:"batch"`

	// Aggregator timeouts y límites de la fachada
	Aggregator AggregatorConfig `yaml:"aggregator"`
}

type CoreConfig struct {
	LogLevel string `yaml:"log_level"`
	TimeoutS int    `yaml:"timeout"` // segundos (0 = sin timeout global)
	JSON     bool   `yaml:"json"`
	Quiet    bool   `yaml:"quiet"` // sin progreso en terminal

	// OutputDir guarda además el resultado en JSON (vacío = no guardar)
	OutputDir string `yaml:"output_dir"`

	ConfigFile   string `yaml:"-"`
	EnvFile      string `yaml:"-"`
	PrintVersion bool   `yaml:"-"`
	PrintHelp    bool   `yaml:"-"`
}

type AggregatorConfig struct {
	SourceTimeout   time.Duration `yaml:"source_timeout"`
	DefaultPageSize int           `yaml:"default_page_size"`
	MaxLimit        int           `yaml:"max_limit"`
}

// Request describe lo que pide el subcomando.
type Request struct {
	Command  string
	Args     []string
	Selector string
	Query    domain.SearchQuery
	Page     int
	PageSize int

	FacetType string
	FacetSize int
}

// Text une los argumentos posicionales.
func (r Request) Text() string {
	return strings.TrimSpace(strings.Join(r.Args, " "))
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: CoreConfig{
			LogLevel: "info",
			TimeoutS: 60,
			EnvFile:  ".env",
		},

		Request: Request{
			Selector:  domain.SelectorAll,
			Page:      1,
			FacetType: "material",
			FacetSize: 20,
		},

		Sources: map[string]ports.SourceConfig{
			string(domain.SourceMet):     sourceDefaults(10, 80),
			string(domain.SourceRijks):   sourceDefaults(8, 10),
			string(domain.SourceVAM):     sourceDefaults(6, 5),
			string(domain.SourceHarvard): sourceDefaults(4, 5),
		},

		Resilience: resilience.DefaultConfig(),
		Batch:      batch.DefaultConfig(),

		Aggregator: AggregatorConfig{
			SourceTimeout:   20 * time.Second,
			DefaultPageSize: 20,
			MaxLimit:        100,
		},
	}
}

func sourceDefaults(priority int, rateLimit float64) ports.SourceConfig {
	sc := ports.DefaultSourceConfig()
	sc.Priority = priority
	sc.RateLimit = rateLimit
	return sc
}

// Load inicializa la configuración en este orden (cada paso sobrescribe al
// anterior): defaults -> fichero YAML -> .env -> ENV -> flags -> normalize.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	// --config y --env-file deciden qué se carga antes de los flags
	pre := preScan(args)
	if pre.ConfigFile != "" {
		cfg.Core.ConfigFile = pre.ConfigFile
	}
	if pre.EnvFile != "" {
		cfg.Core.EnvFile = pre.EnvFile
	}

	if cfg.Core.ConfigFile != "" {
		if err := loadFromFile(&cfg, cfg.Core.ConfigFile); err != nil {
			return cfg, err
		}
	}

	if err := loadDotEnv(cfg.Core.EnvFile); err != nil {
		return cfg, err
	}

	loadFromEnv(&cfg)

	if err := loadFromFlags(&cfg, args); err != nil {
		return cfg, err
	}

	if err := normalize(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// preScan extrae --config y --env-file ignorando el resto de flags.
func preScan(args []string) CoreConfig {
	var c CoreConfig
	fs := pflag.NewFlagSet("prescan", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(discard{})
	fs.StringVarP(&c.ConfigFile, "config", "c", "", "")
	fs.StringVar(&c.EnvFile, "env-file", "", "")
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)
	return c
}

// fileConfig refleja el YAML; las sources se decodifican sobre sus defaults.
type fileConfig struct {
	Core       CoreConfig           `yaml:"core"`
	Sources    map[string]yaml.Node `yaml:"sources"`
	Resilience resilience.Config    `yaml:"resilience"`
	Batch      batch.Config         `yaml:"batch"`
	Aggregator AggregatorConfig     `yaml:"aggregator"`
}

// loadFromFile aplica un fichero YAML sobre cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}

	file := fileConfig{
		Core:       cfg.Core,
		Resilience: cfg.Resilience,
		Batch:      cfg.Batch,
		Aggregator: cfg.Aggregator,
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "parse config file %s: %v", path, err)
	}

	file.Core.ConfigFile = cfg.Core.ConfigFile
	file.Core.EnvFile = cfg.Core.EnvFile
	cfg.Core = file.Core
	cfg.Resilience = file.Resilience
	cfg.Batch = file.Batch
	cfg.Aggregator = file.Aggregator

	for name, node := range file.Sources {
		name = strings.ToLower(strings.TrimSpace(name))
		sc, ok := cfg.Sources[name]
		if !ok {
			sc = ports.DefaultSourceConfig()
		}
		if err := node.Decode(&sc); err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "parse source %s in %s: %v", name, path, err)
		}
		cfg.Sources[name] = sc
	}
	return nil
}

// loadDotEnv carga path en el entorno sin pisar variables ya definidas.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "load env file %s: %v", path, err)
	}
	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv(EnvPrefix+"LOG_LEVEL", ""); v != "" {
		cfg.Core.LogLevel = v
	}
	if v := getenv(EnvPrefix+"TIMEOUT", ""); v != "" {
		cfg.Core.TimeoutS = parseInt(v, cfg.Core.TimeoutS)
	}
	if v := getenv(EnvPrefix+"JSON", ""); v != "" {
		cfg.Core.JSON = parseBool(v)
	}
	if v := getenv(EnvPrefix+"QUIET", ""); v != "" {
		cfg.Core.Quiet = parseBool(v)
	}
	if v := getenv(EnvPrefix+"OUTPUT_DIR", ""); v != "" {
		cfg.Core.OutputDir = v
	}
	if v := getenv(EnvPrefix+"SOURCES", ""); v != "" {
		cfg.Request.Selector = v
	}

	// Aggregator
	if v := getenv(EnvPrefix+"SOURCE_TIMEOUT", ""); v != "" {
		cfg.Aggregator.SourceTimeout = parseDuration(v, cfg.Aggregator.SourceTimeout)
	}
	if v := getenv(EnvPrefix+"PAGE_SIZE", ""); v != "" {
		cfg.Aggregator.DefaultPageSize = parseInt(v, cfg.Aggregator.DefaultPageSize)
	}
	if v := getenv(EnvPrefix+"MAX_LIMIT", ""); v != "" {
		cfg.Aggregator.MaxLimit = parseInt(v, cfg.Aggregator.MaxLimit)
	}

	// Resilience
	if v := getenv(EnvPrefix+"RESILIENCE_MAX_FAILURES", ""); v != "" {
		cfg.Resilience.MaxConsecutiveFailures = parseInt(v, cfg.Resilience.MaxConsecutiveFailures)
	}
	if v := getenv(EnvPrefix+"RESILIENCE_COOLDOWN", ""); v != "" {
		cfg.Resilience.Cooldown = parseDuration(v, cfg.Resilience.Cooldown)
	}
	if v := getenv(EnvPrefix+"RESILIENCE_MAX_ATTEMPTS", ""); v != "" {
		cfg.Resilience.MaxAttempts = parseInt(v, cfg.Resilience.MaxAttempts)
	}

	// Batch
	if v := getenv(EnvPrefix+"BATCH_SIZE", ""); v != "" {
		cfg.Batch.Size = parseInt(v, cfg.Batch.Size)
	}
	if v := getenv(EnvPrefix+"BATCH_BASE_DELAY", ""); v != "" {
		cfg.Batch.BaseDelay = parseDuration(v, cfg.Batch.BaseDelay)
	}

	// Sources config desde ENV
	// Formato: CURATORX_SOURCES_MET_ENABLED=true
	//          CURATORX_SOURCES_MET_TIMEOUT=10s
	//          CURATORX_SOURCES_HARVARD_API_KEY=...
	for name := range cfg.Sources {
		prefix := fmt.Sprintf("%sSOURCES_%s_", EnvPrefix, strings.ToUpper(name))
		sc := cfg.Sources[name]

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			sc.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"PRIORITY", ""); v != "" {
			sc.Priority = parseInt(v, sc.Priority)
		}
		if v := getenv(prefix+"BASE_URL", ""); v != "" {
			sc.BaseURL = v
		}
		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			sc.Timeout = parseDuration(v, sc.Timeout)
		}
		if v := getenv(prefix+"SEARCH_TIMEOUT", ""); v != "" {
			sc.SearchTimeout = parseDuration(v, sc.SearchTimeout)
		}
		if v := getenv(prefix+"RATELIMIT", ""); v != "" {
			sc.RateLimit = parseFloat(v, sc.RateLimit)
		}
		if v := getenv(prefix+"USER_AGENT", ""); v != "" {
			sc.UserAgent = v
		}
		for _, key := range []string{"api_key", "username", "password", "contact"} {
			if v := getenv(prefix+strings.ToUpper(key), ""); v != "" {
				if sc.Custom == nil {
					sc.Custom = make(map[string]interface{})
				}
				sc.Custom[key] = v
			}
		}

		cfg.Sources[name] = sc
	}
}

// loadFromFlags parsea flags de CLI (los flags tienen prioridad sobre ENV).
func loadFromFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("curatorx", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {}
	fs.SetOutput(discard{})

	// Core
	fs.StringVarP(&cfg.Core.ConfigFile, "config", "c", cfg.Core.ConfigFile, "YAML configuration file")
	fs.StringVar(&cfg.Core.EnvFile, "env-file", cfg.Core.EnvFile, ".env file loaded before environment variables")
	fs.StringVarP(&cfg.Core.LogLevel, "log-level", "l", cfg.Core.LogLevel, "Log level (debug, info, warn, error)")
	fs.IntVarP(&cfg.Core.TimeoutS, "timeout", "T", cfg.Core.TimeoutS, "Global timeout in seconds (0 = no timeout)")
	fs.BoolVarP(&cfg.Core.JSON, "json", "j", cfg.Core.JSON, "Print JSON instead of a table")
	fs.BoolVarP(&cfg.Core.Quiet, "quiet", "q", cfg.Core.Quiet, "Disable per-source progress output")
	fs.StringVarP(&cfg.Core.OutputDir, "out", "o", cfg.Core.OutputDir, "Also save results as JSON under this directory")
	fs.BoolVarP(&cfg.Core.PrintVersion, "version", "v", false, "Print version and exit")
	fs.BoolVarP(&cfg.Core.PrintHelp, "help", "h", false, "Show help")

	// Request
	req := &cfg.Request
	fs.StringVarP(&req.Selector, "sources", "s", req.Selector, `Source selector: "all" or a comma-separated list`)
	fs.IntVarP(&req.Page, "page", "p", req.Page, "Result page (1-based)")
	fs.IntVarP(&req.PageSize, "page-size", "n", req.PageSize, "Artworks per page (0 = default)")
	fs.BoolVar(&req.Query.HasImages, "has-images", req.Query.HasImages, "Only artworks with images")
	fs.BoolVar(&req.Query.HighlightsOnly, "highlights", req.Query.HighlightsOnly, "Only highlighted artworks (met)")
	fs.IntVar(&req.Query.DepartmentID, "department-id", req.Query.DepartmentID, "Department id filter (met)")
	fs.StringVar(&req.Query.Department, "department", req.Query.Department, "Department name filter (harvard)")
	fs.StringVar(&req.Query.Maker, "maker", req.Query.Maker, "Maker filter")
	fs.StringVar(&req.Query.Type, "type", req.Query.Type, "Object type filter (rijks)")
	fs.StringVar(&req.Query.Material, "material", req.Query.Material, "Material filter")
	fs.StringVar(&req.Query.Technique, "technique", req.Query.Technique, "Technique filter")
	dateBegin := fs.Int("date-begin", 0, "Earliest year")
	dateEnd := fs.Int("date-end", 0, "Latest year")
	fs.StringVar(&req.FacetType, "facet", req.FacetType, "Facet type for the facets command (material, technique, place)")
	fs.IntVar(&req.FacetSize, "facet-size", req.FacetSize, "Number of facet values")

	// Aggregator
	fs.DurationVar(&cfg.Aggregator.SourceTimeout, "source-timeout", cfg.Aggregator.SourceTimeout, "Upper bound for one source's search")

	// Resilience
	fs.IntVar(&cfg.Resilience.MaxConsecutiveFailures, "resilience.max-failures", cfg.Resilience.MaxConsecutiveFailures,
		"Consecutive failures that open the circuit breaker")
	fs.DurationVar(&cfg.Resilience.Cooldown, "resilience.cooldown", cfg.Resilience.Cooldown,
		"Circuit breaker cooldown")

	// Source configs (enabled y priority via flags, el resto via fichero o ENV)
	names := sourceNames(cfg.Sources)
	enabled := make(map[string]*bool, len(names))
	priority := make(map[string]*int, len(names))
	for _, name := range names {
		sc := cfg.Sources[name]
		enabled[name] = fs.Bool("src."+name, sc.Enabled, fmt.Sprintf("Enable source %s", name))
		priority[name] = fs.Int("src."+name+".priority", sc.Priority, fmt.Sprintf("Priority of source %s (higher = built first)", name))
	}

	if err := fs.Parse(args); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "flags: %v", err)
	}

	for _, name := range names {
		sc := cfg.Sources[name]
		sc.Enabled = *enabled[name]
		sc.Priority = *priority[name]
		cfg.Sources[name] = sc
	}
	if fs.Changed("date-begin") {
		req.Query.DateBegin = domain.Year(*dateBegin)
	}
	if fs.Changed("date-end") {
		req.Query.DateEnd = domain.Year(*dateEnd)
	}

	rest := fs.Args()
	if len(rest) > 0 {
		req.Command = strings.ToLower(rest[0])
		req.Args = rest[1:]
	}
	req.Query.Text = req.Text()
	return nil
}

func normalize(c *Config) error {
	c.Core.LogLevel = strings.ToLower(strings.TrimSpace(c.Core.LogLevel))
	c.Core.OutputDir = strings.TrimSpace(c.Core.OutputDir)
	if c.Core.TimeoutS < 0 {
		c.Core.TimeoutS = 0
	}

	if c.Request.Page < 1 {
		c.Request.Page = 1
	}
	if c.Request.PageSize < 0 {
		c.Request.PageSize = 0
	}
	if strings.TrimSpace(c.Request.Selector) == "" {
		c.Request.Selector = domain.SelectorAll
	}
	c.Request.FacetType = strings.ToLower(strings.TrimSpace(c.Request.FacetType))
	c.Request.Query = c.Request.Query.Normalize()

	if c.Aggregator.SourceTimeout <= 0 {
		c.Aggregator.SourceTimeout = 20 * time.Second
	}
	if c.Aggregator.MaxLimit <= 0 {
		c.Aggregator.MaxLimit = 100
	}
	if c.Aggregator.DefaultPageSize <= 0 || c.Aggregator.DefaultPageSize > c.Aggregator.MaxLimit {
		c.Aggregator.DefaultPageSize = min(20, c.Aggregator.MaxLimit)
	}

	c.Batch = c.Batch.Normalize()

	for name := range c.Sources {
		if _, err := domain.ParseSource(name); err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "unknown source %q in configuration", name)
		}
	}

	if c.Request.Command != "" && !isCommand(c.Request.Command) {
		return errors.Wrapf(errors.ErrInvalidInput, "unknown command %q (want one of %s)",
			c.Request.Command, strings.Join(Commands, ", "))
	}
	return c.Request.Query.Validate()
}

// SourceConfigs convierte el mapa por nombre en el mapa tipado del registry.
func (c Config) SourceConfigs() map[domain.Source]ports.SourceConfig {
	out := make(map[domain.Source]ports.SourceConfig, len(c.Sources))
	for name, sc := range c.Sources {
		if src, err := domain.ParseSource(name); err == nil {
			out[src] = sc
		}
	}
	return out
}

// ToJSON serializa la configuración a JSON (útil para debugging).
// Credentials in source custom maps are masked.
func (c Config) ToJSON() (string, error) {
	masked := c
	masked.Sources = make(map[string]ports.SourceConfig, len(c.Sources))
	for name, sc := range c.Sources {
		custom := make(map[string]interface{}, len(sc.Custom))
		for k, v := range sc.Custom {
			if k == "api_key" || k == "password" {
				v = "***"
			}
			custom[k] = v
		}
		sc.Custom = custom
		masked.Sources[name] = sc
	}

	data, err := json.MarshalIndent(masked, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout devuelve el timeout global como time.Duration.
func (c Config) Timeout() time.Duration {
	if c.Core.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.Core.TimeoutS) * time.Second
}

// Helpers

func isCommand(cmd string) bool {
	for _, c := range Commands {
		if c == cmd {
			return true
		}
	}
	return false
}

func sourceNames(sources map[string]ports.SourceConfig) []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// parseDuration acepta "1500ms", "20s" o segundos enteros ("20").
func parseDuration(v string, def time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if s, err := strconv.Atoi(v); err == nil {
		return time.Duration(s) * time.Second
	}
	return def
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName     = "Age Calculator"
	AppID       = "com.github.tartampluch.go-age-calculator"
	LogFileName = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion   = "version"
	FlagDebug     = "debug"
	FlagMode      = "mode"
	FlagAddr      = "addr"
	FlagAlgorithm = "algorithm"
	FlagLang      = "lang"

	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging to stdout"
	FlagDescMode      = "Surface to run: desktop, web or both"
	FlagDescAddr      = "Listen address of the web surface"
	FlagDescAlgorithm = "Age algorithm: calendar or epoch"
	FlagDescLang      = "Interface language (ISO 639-1)"

	MsgVersionOutput = "%s version %s (commit %s, built %s) %s/%s\n"
)

// Run modes selected with -mode.
const (
	ModeDesktop = "desktop"
	ModeWeb     = "web"
	ModeBoth    = "both"
)

// -----------------------------------------------------------------------------
// Birth Date Rules
// -----------------------------------------------------------------------------

// Inclusive bounds of each birth date field. The validator struct tags in
// engine mirror these values.
const (
	MinDay   = 1
	MaxDay   = 31
	MinMonth = 1
	MaxMonth = 12
	MinYear  = 1925
	MaxYear  = 2023

	// EpochYear is the reference year of the epoch-difference technique.
	EpochYear = 1970
)

// Field names, shared by the validator, the web form and the JSON API.
const (
	FieldDay   = "day"
	FieldMonth = "month"
	FieldYear  = "year"
)

// Validation messages shown next to a field.
const (
	MsgFieldRequired = "This field is required"
	MsgInvalidDay    = "Must be a valid day"
	MsgInvalidMonth  = "Must be a valid month"
	MsgYearInPast    = "Must be in the past"
)

// Age algorithms selectable with -algorithm.
const (
	AlgorithmCalendar = "calendar"
	AlgorithmEpoch    = "epoch"
)

// ResultPlaceholder is displayed in place of each counter before the first submission.
const ResultPlaceholder = "--"

// -----------------------------------------------------------------------------
// Defaults
// -----------------------------------------------------------------------------

const (
	DefaultMode      = ModeDesktop
	DefaultAddr      = "127.0.0.1:18080"
	DefaultAlgorithm = AlgorithmCalendar
	DefaultLanguage  = "en"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Desktop Window
// -----------------------------------------------------------------------------

const (
	WindowWidth    = 420
	WindowHeight   = 360
	LayoutColumns  = 3
	ResultTextSize = 42
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle    = "win_title"
	TKeyLblDay      = "lbl_day"
	TKeyLblMonth    = "lbl_month"
	TKeyLblYear     = "lbl_year"
	TKeyPhDay       = "placeholder_day"
	TKeyPhMonth     = "placeholder_month"
	TKeyPhYear      = "placeholder_year"
	TKeyBtnSubmit   = "btn_submit"
	TKeyUnitYears   = "unit_years"
	TKeyUnitMonths  = "unit_months"
	TKeyUnitDays    = "unit_days"
	TKeyErrRequired = "err_required"
	TKeyErrDay      = "err_invalid_day"
	TKeyErrMonth    = "err_invalid_month"
	TKeyErrYear     = "err_year_past"
	TKeyLblFooter   = "lbl_footer"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	MaxRequestBodySize = 4 * 1024 // Three small integers fit comfortably.
	AllowedMethodsForm = "GET, HEAD, POST"
	AllowedMethodsAPI  = "POST"

	RouteRoot    = "/"
	RouteAPIAge  = "/api/age"
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"

	QueryLang = "lang"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType  = "Content-Type"
	HeaderContentLen   = "Content-Length"
	HeaderCacheControl = "Cache-Control"
	HeaderAllow        = "Allow"
	HeaderXContentType = "X-Content-Type-Options"
	HeaderAcceptLang   = "Accept-Language"

	MimeHTML            = "text/html; charset=utf-8"
	MimeJSON            = "application/json"
	MimeText            = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricsNamespace   = "agecalc"
	MetricCalculations = "calculations_total"
	MetricRejections   = "validation_rejections_total"
	MetricLatency      = "request_duration_seconds"
	MetricLabelAlgo    = "algorithm"
	MetricLabelField   = "field"
	MetricLabelRoute   = "route"

	// MetricRouteUnmatched labels requests no route matched, so 404 paths
	// share one series.
	MetricRouteUnmatched = "unmatched"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidBirthDate = "birth date failed validation"
	ErrBirthInFuture    = "birth date is after the current date"
	ErrUnknownAlgorithm = "unknown age algorithm"
	ErrUnknownMode      = "unknown run mode"
	ErrClockMissing     = "internal error: clock is not initialized"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrAddrRequired     = "server address is required"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrCalculation      = "age calculation failed"
	ErrWriteResp        = "failed to write response body"
	ErrRenderPage       = "failed to render page"
	ErrDecodeBody       = "failed to decode request body"
	ErrParseForm        = "failed to parse form"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgBadRequest   = "Bad Request"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgHealthy      = "ok"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStop        = "Application stopped gracefully"
	MsgAppStarting    = "Starting application"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgRequestServed  = "Request served"
	MsgAgeCalculated  = "Age calculated"
	MsgValidationFail = "Birth date rejected"
	MsgFormSubmitted  = "Form submitted"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyAddr      = "addr"
	LogKeyMode      = "mode"
	LogKeyAlgorithm = "algorithm"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyStatus    = "status_code"
	LogKeyRequestID = "request_id"
	LogKeyDuration  = "duration_ms"
	LogKeyDay       = "day"
	LogKeyMonth     = "month"
	LogKeyYear      = "year"
	LogKeyYears     = "years"
	LogKeyMonths    = "months"
	LogKeyDays      = "days"
	LogKeyResult    = "result"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI     = "ui"
	CompEngine = "engine"
	CompServer = "server"
	CompMain   = "main"
	CompI18n   = "i18n"
)

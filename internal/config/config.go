package config

const (
	// Listener defaults, overridable per service in services.yaml.
	DefaultGatewayPort = 8081
	DefaultReconPort   = 6243
	DefaultReportPort  = 6343

	// Upload handling.
	MaxUploadBytes = 32 << 20

	// Cutoff dates arrive as form values in this layout.
	CutoffDateLayout = "2006-01-02"

	// Dates in the Updated sheet are rendered US-style, matching what the
	// downstream planners paste back into their tracker.
	OutputDateFormat = "01/02/2006"

	// CORS origin for the hosted frontend when services.yaml does not set one.
	DefaultAllowedOrigin = "https://pag-frontend.vercel.app"
)

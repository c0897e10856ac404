package forms

import "github.com/rbac-console/admin-console/src/internal/settings"

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionSource names a dynamic option list computed from the settings tree.
type OptionSource string

const (
	OptionsStatic    OptionSource = ""
	OptionsRoles     OptionSource = "roles"
	OptionsTimezones OptionSource = "timezones"
)

// Field is one catalog entry.
type Field struct {
	Path    string             `json:"path"`
	Label   string             `json:"label"`
	Kind    settings.FieldKind `json:"kind"`
	Default any                `json:"default,omitempty"`
	Options []Option           `json:"options,omitempty"`
	// OptionsFrom, when set, replaces Options with a list derived from the tree.
	OptionsFrom OptionSource `json:"options_from,omitempty"`
	// Rules is a validator tag applied to the gathered value.
	Rules string `json:"rules,omitempty"`
}

// Group is a titled block of fields inside a section.
type Group struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Section is one tab of the settings page.
type Section struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Groups []Group `json:"groups"`
}

var fontOptions = options("Arial", "Helvetica", "Georgia", "Times New Roman", "Verdana", "Tahoma", "Trebuchet MS")

// timezoneNames is offered when the tree has no timezone list of its own.
var timezoneNames = []string{
	"UTC",
	"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos",
	"America/Chicago", "America/Denver", "America/Los_Angeles", "America/New_York",
	"America/Sao_Paulo", "America/Toronto",
	"Asia/Dubai", "Asia/Kolkata", "Asia/Shanghai", "Asia/Singapore", "Asia/Tokyo",
	"Australia/Sydney",
	"Europe/Berlin", "Europe/London", "Europe/Madrid", "Europe/Moscow", "Europe/Paris",
	"Pacific/Auckland",
}

var catalog = []Section{
	{
		ID:    "general",
		Title: "General",
		Groups: []Group{
			{Title: "Site Information", Fields: []Field{
				{Path: "site.name", Label: "Site Name", Kind: settings.KindText, Default: "", Rules: "max=100"},
				{Path: "site.description", Label: "Site Description", Kind: settings.KindTextarea, Default: "", Rules: "max=1000"},
			}},
			{Title: "Contact Information", Fields: []Field{
				{Path: "site.admin_email", Label: "Admin Email", Kind: settings.KindEmail, Default: "", Rules: "omitempty,email"},
				{Path: "site.support_email", Label: "Support Email", Kind: settings.KindEmail, Default: "", Rules: "omitempty,email"},
			}},
			{Title: "Regional Settings", Fields: []Field{
				{Path: "site.timezone", Label: "Default Timezone", Kind: settings.KindSelect, Default: "UTC", OptionsFrom: OptionsTimezones, Rules: "omitempty,timezone"},
				{Path: "site.date_format", Label: "Date Format", Kind: settings.KindSelect, Default: "YYYY-MM-DD",
					Options: options("YYYY-MM-DD", "MM/DD/YYYY", "DD/MM/YYYY")},
			}},
		},
	},
	{
		ID:    "security",
		Title: "Security",
		Groups: []Group{
			{Title: "Password Policy", Fields: []Field{
				{Path: "security.password.min_length", Label: "Minimum Password Length", Kind: settings.KindNumber, Default: int64(8), Rules: "min=6,max=128"},
				{Path: "security.password.require_uppercase", Label: "Require Uppercase Letters", Kind: settings.KindCheckbox, Default: false},
				{Path: "security.password.require_numbers", Label: "Require Numbers", Kind: settings.KindCheckbox, Default: false},
				{Path: "security.password.require_special", Label: "Require Special Characters", Kind: settings.KindCheckbox, Default: false},
			}},
			{Title: "Session Security", Fields: []Field{
				{Path: "security.session.timeout", Label: "Session Timeout (minutes)", Kind: settings.KindNumber, Default: int64(30), Rules: "min=5,max=1440"},
				{Path: "security.login.max_attempts", Label: "Max Login Attempts", Kind: settings.KindNumber, Default: int64(5), Rules: "min=1,max=10"},
				{Path: "security.login.lockout_duration", Label: "Account Lockout Duration (minutes)", Kind: settings.KindNumber, Default: int64(15), Rules: "min=5,max=60"},
			}},
			{Title: "Two-Factor Authentication", Fields: []Field{
				{Path: "security.two_factor.enabled", Label: "Enable Two-Factor Authentication", Kind: settings.KindCheckbox, Default: false},
				{Path: "security.two_factor.method", Label: "Default 2FA Method", Kind: settings.KindSelect, Default: "app",
					Options: []Option{{"app", "Authenticator App"}, {"email", "Email"}, {"sms", "SMS"}}},
			}},
		},
	},
	{
		ID:    "authentication",
		Title: "Authentication",
		Groups: []Group{
			{Title: "Login Settings", Fields: []Field{
				{Path: "auth.allow_registration", Label: "Allow User Registration", Kind: settings.KindCheckbox, Default: false},
				{Path: "auth.email_verification", Label: "Require Email Verification", Kind: settings.KindCheckbox, Default: false},
				{Path: "auth.default_role", Label: "Default User Role", Kind: settings.KindSelect, Default: "user", OptionsFrom: OptionsRoles},
			}},
			{Title: "Social Login", Fields: []Field{
				{Path: "auth.oauth.google.enabled", Label: "Google Login", Kind: settings.KindCheckbox, Default: false},
				{Path: "auth.oauth.google.client_id", Label: "Google Client ID", Kind: settings.KindText, Default: ""},
				{Path: "auth.oauth.google.client_secret", Label: "Google Client Secret", Kind: settings.KindPassword, Default: ""},
				{Path: "auth.oauth.github.enabled", Label: "GitHub Login", Kind: settings.KindCheckbox, Default: false},
				{Path: "auth.oauth.github.client_id", Label: "GitHub Client ID", Kind: settings.KindText, Default: ""},
				{Path: "auth.oauth.github.client_secret", Label: "GitHub Client Secret", Kind: settings.KindPassword, Default: ""},
			}},
		},
	},
	{
		ID:    "email",
		Title: "Email",
		Groups: []Group{
			{Title: "SMTP Configuration", Fields: []Field{
				{Path: "email.smtp.host", Label: "SMTP Host", Kind: settings.KindText, Default: "", Rules: "omitempty,hostname_rfc1123|ip"},
				{Path: "email.smtp.port", Label: "SMTP Port", Kind: settings.KindNumber, Default: int64(587), Rules: "min=1,max=65535"},
				{Path: "email.smtp.secure", Label: "Use SSL/TLS", Kind: settings.KindCheckbox, Default: false},
				{Path: "email.smtp.username", Label: "SMTP Username", Kind: settings.KindText, Default: ""},
				{Path: "email.smtp.password", Label: "SMTP Password", Kind: settings.KindPassword, Default: ""},
			}},
		},
	},
	{
		ID:    "appearance",
		Title: "Appearance",
		Groups: []Group{
			{Title: "Theme Settings", Fields: []Field{
				{Path: "appearance.theme.primary_color", Label: "Primary Color", Kind: settings.KindColor, Default: "#1a73e8", Rules: "omitempty,hexcolor"},
				{Path: "appearance.theme.secondary_color", Label: "Secondary Color", Kind: settings.KindColor, Default: "#dc3545", Rules: "omitempty,hexcolor"},
				{Path: "appearance.theme.font_family", Label: "Font Family", Kind: settings.KindSelect, Default: "Arial", Options: fontOptions},
			}},
			{Title: "Layout Options", Fields: []Field{
				{Path: "appearance.layout.sidebar_position", Label: "Sidebar Position", Kind: settings.KindSelect, Default: "left",
					Options: []Option{{"left", "Left"}, {"right", "Right"}}},
				{Path: "appearance.layout.compact_mode", Label: "Compact Mode", Kind: settings.KindCheckbox, Default: false},
			}},
			{Title: "Custom CSS", Fields: []Field{
				{Path: "appearance.custom_css", Label: "Custom CSS", Kind: settings.KindTextarea, Default: "", Rules: "max=65536"},
			}},
		},
	},
	{
		ID:    "maintenance",
		Title: "Maintenance",
		Groups: []Group{
			{Title: "Maintenance Mode", Fields: []Field{
				{Path: "maintenance.enabled", Label: "Enable Maintenance Mode", Kind: settings.KindCheckbox, Default: false},
				{Path: "maintenance.message", Label: "Maintenance Message", Kind: settings.KindTextarea, Default: ""},
			}},
			{Title: "System Cleanup", Fields: []Field{
				{Path: "maintenance.log_retention", Label: "Log Retention (days)", Kind: settings.KindNumber, Default: int64(30), Rules: "min=1,max=365"},
				{Path: "maintenance.session_cleanup", Label: "Session Cleanup (hours)", Kind: settings.KindNumber, Default: int64(24), Rules: "min=1,max=168"},
			}},
		},
	},
	{
		ID:    "backup",
		Title: "Backup",
		Groups: []Group{
			{Title: "Automatic Backups", Fields: []Field{
				{Path: "backup.auto_backup.enabled", Label: "Enable Automatic Backups", Kind: settings.KindCheckbox, Default: false},
				{Path: "backup.auto_backup.frequency", Label: "Backup Frequency", Kind: settings.KindSelect, Default: "daily",
					Options: []Option{{"daily", "Daily"}, {"weekly", "Weekly"}, {"monthly", "Monthly"}}},
				{Path: "backup.auto_backup.retention_days", Label: "Backup Retention (days)", Kind: settings.KindNumber, Default: int64(30), Rules: "min=1,max=365"},
			}},
		},
	},
}

func options(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

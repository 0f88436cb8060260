package tester

import "net/http"

type Endpoint struct {
	Category    string
	Method      string
	Path        string
	Description string
}

// Catalog lists the endpoints most often exercised by hand.
var Catalog = []Endpoint{
	{"auth", http.MethodPost, "/auth/token/", "Get JWT tokens"},
	{"auth", http.MethodPost, "/auth/token/refresh/", "Refresh token"},
	{"auth", http.MethodPost, "/auth/login/", "Login"},
	{"auth", http.MethodPost, "/auth/logout/", "Logout"},
	{"auth", http.MethodGet, "/auth/user/", "Get current user"},

	{"encounters", http.MethodGet, "/encounters/", "List encounters"},
	{"encounters", http.MethodPost, "/encounters/", "Create encounter"},
	{"encounters", http.MethodGet, "/encounters/{id}/", "Get encounter"},
	{"encounters", http.MethodPatch, "/encounters/{id}/", "Update encounter"},
	{"encounters", http.MethodDelete, "/encounters/{id}/", "Delete encounter"},
	{"encounters", http.MethodPost, "/encounters/{id}/process/", "Process audio"},
	{"encounters", http.MethodPost, "/encounters/{id}/generate-soap/", "Generate SOAP"},

	{"patients", http.MethodGet, "/patients/", "List patients"},
	{"patients", http.MethodPost, "/patients/", "Create patient"},
	{"patients", http.MethodGet, "/patients/{id}/", "Get patient"},
	{"patients", http.MethodPatch, "/patients/{id}/", "Update patient"},
	{"patients", http.MethodDelete, "/patients/{id}/", "Delete patient"},

	{"checklist", http.MethodGet, "/checklist/templates/", "List templates"},
	{"checklist", http.MethodPost, "/checklist/templates/", "Create template"},
	{"checklist", http.MethodGet, "/checklist/templates/{id}/", "Get template"},

	{"analytics", http.MethodGet, "/analytics/dashboard/", "Dashboard stats"},
	{"analytics", http.MethodGet, "/analytics/encounters/", "Encounter stats"},
	{"analytics", http.MethodGet, "/analytics/patients/", "Patient stats"},
}

// DefaultBody is the body template offered for an endpoint. Only POST and
// PATCH get one.
func DefaultBody(method, path string) string {
	if method != http.MethodPost && method != http.MethodPatch {
		return ""
	}
	switch path {
	case "/auth/token/", "/auth/login/":
		return "{\n  \"username\": \"admin\",\n  \"password\": \"admin123\"\n}"
	case "/encounters/":
		return "{\n  \"patient\": 1,\n  \"chief_complaint\": \"Test complaint\"\n}"
	case "/patients/":
		return "{\n  \"first_name\": \"John\",\n  \"last_name\": \"Doe\",\n  \"date_of_birth\": \"1990-01-01\",\n  \"gender\": \"male\"\n}"
	default:
		return "{}"
	}
}

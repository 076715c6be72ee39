package api

type credentialsInput struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

// fieldPayload carries a field definition over the wire. Order historically
// arrived as either a number or a numeric string, so it stays loose here and
// is coerced during validation.
type fieldPayload struct {
	Title      string   `json:"title"`
	Label      string   `json:"label"`
	Type       string   `json:"type"`
	Order      any      `json:"order"`
	Multiline  bool     `json:"multiline"`
	PointColor string   `json:"point_color"`
	PointStyle string   `json:"point_style"`
	Values     []string `json:"values"`
	Minimum    *float64 `json:"minimum"`
	Maximum    *float64 `json:"maximum"`
}

type entryPayload struct {
	Values map[string]any `json:"values"`
}

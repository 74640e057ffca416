package handlers

// ShortenRequest is the request body for creating a short URL.
type ShortenRequest struct {
	Body struct {
		URL        string `doc:"The URL to shorten"                          example:"https://example.com/very/long/path" json:"url"                   required:"false"`
		CustomCode string `doc:"Optional caller-chosen code (letters, digits, _ and -)" example:"launch-2026"        json:"custom_code,omitempty"`
	}
}

// ShortenResponse is the response for a successfully created short URL.
type ShortenResponse struct {
	Body struct {
		ShortURL  string `doc:"The full short URL"                 example:"http://localhost:8888/aB3dE5fG" json:"short_url"`
		ExpiresAt string `doc:"When the short URL expires (UTC)" example:"2026-11-18T12:00:00Z"           json:"expires_at"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"aB3dE5fG" path:"code"`
}

// RedirectResponse redirects the client to the long URL.
type RedirectResponse struct {
	Status       int
	Location     string `doc:"The long URL"           header:"Location"`
	CacheControl string `doc:"How long clients may cache the redirect" header:"Cache-Control"`
}

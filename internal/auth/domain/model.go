package domain

// User is the authenticated caller, built from verified ID-token claims.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url"`
	Token    string `json:"-"`
}

// Fields flattens the caller's identity into response fields.
func (u *User) Fields() map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"photo_url": u.PhotoURL,
	}
}

// Session is a token pair issued by the identity provider.
type Session struct {
	ID           string `json:"id"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

// Fields flattens the session into response fields. Empty identity fields
// are left out so they do not shadow other sources in a merge.
func (s *Session) Fields() map[string]any {
	out := map[string]any{
		"id":            s.ID,
		"token":         s.Token,
		"refresh_token": s.RefreshToken,
		"expires_in":    s.ExpiresIn,
	}
	if s.Email != "" {
		out["email"] = s.Email
	}
	if s.Name != "" {
		out["name"] = s.Name
	}
	return out
}

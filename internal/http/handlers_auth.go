package http

import (
	"net/http"
)

type authPageData struct {
	Error string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if s.session.Active() {
			http.Redirect(w, r, "/expenses", http.StatusSeeOther)
			return
		}
		s.render(w, r, "login.html", authPageData{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			s.render(w, r, "login.html", authPageData{Error: "Invalid form submission"})
			return
		}
		username := sanitizeInput(r.Form.Get("username"))
		password := r.Form.Get("password")
		if username == "" || password == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "login.html", authPageData{Error: "Username and password are required"})
			return
		}

		if err := s.session.Login(r.Context(), username, password); err != nil {
			s.log.WarnContext(r.Context(), "Login failed", "username", username, "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			s.render(w, r, "login.html", authPageData{Error: "Login failed, check your credentials"})
			return
		}
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "register.html", authPageData{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			s.render(w, r, "register.html", authPageData{Error: "Invalid form submission"})
			return
		}
		username := sanitizeInput(r.Form.Get("username"))
		email := sanitizeInput(r.Form.Get("email"))
		password := r.Form.Get("password")
		if username == "" || email == "" || password == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "register.html", authPageData{Error: "All fields are required"})
			return
		}

		if _, err := s.registrar.Register(r.Context(), username, email, password); err != nil {
			s.log.WarnContext(r.Context(), "Registration failed", "username", username, "error", err)
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "register.html", authPageData{Error: "Registration failed"})
			return
		}

		s.log.InfoContext(r.Context(), "User registered", "username", username)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.session.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

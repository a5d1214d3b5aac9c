package httpapi

import "net/http"

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeJSON(r, w, &req) {
		return
	}

	user, token, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password, req.PasswordConfirmation)
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, authPayload{Token: token, User: toUserPayload(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSON(r, w, &req) {
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, authPayload{Token: token, User: toUserPayload(user)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	info := authFromContext(r.Context())

	if err := s.users.Logout(r.Context(), info.TokenID); err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info := authFromContext(r.Context())

	user, err := s.users.GetUser(r.Context(), info.UserID)
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toUserPayload(user))
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !s.decodeJSON(r, w, &req) {
		return
	}

	info := authFromContext(r.Context())

	user, err := s.users.UpdateProfile(r.Context(), info.UserID, req.Name)
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toUserPayload(user))
}

type changePasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !s.decodeJSON(r, w, &req) {
		return
	}

	info := authFromContext(r.Context())

	err := s.users.ChangePassword(r.Context(), info.UserID, req.CurrentPassword, req.Password, req.PasswordConfirmation)
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

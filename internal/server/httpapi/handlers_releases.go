package httpapi

import "net/http"

func (s *Server) handleReleases(w http.ResponseWriter, r *http.Request) {
	releases, err := s.releases.Latest(r.Context())
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toReleasesPayload(releases))
}

func (s *Server) handleFeaturedReleases(w http.ResponseWriter, r *http.Request) {
	releases, err := s.releases.Featured(r.Context())
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toReleasesPayload(releases))
}

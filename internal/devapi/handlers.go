package devapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/minigame"
	"github.com/abhisek/dyscreen/internal/scoring"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	s.mu.Lock()
	acct := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if acct == nil || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	tok, err := s.issue(acct.ID, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token")
		return
	}
	s.log.Info("login", "account", acct.ID)
	writeJSON(w, http.StatusOK, map[string]string{"access_token": tok})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	c := claimsFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == c.AccountID {
			writeJSON(w, http.StatusOK, a.Account)
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "account gone")
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	c := claimsFrom(r)
	s.mu.Lock()
	out := make([]api.Profile, 0)
	for _, p := range s.profiles {
		if p.accountID == c.AccountID {
			out = append(out, p.Profile)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	writeJSON(w, http.StatusOK, out)
}

func decodeProfile(w http.ResponseWriter, r *http.Request) (api.ProfileInput, bool) {
	var in api.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return in, false
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return in, false
	}
	if in.Age < 3 || in.Age > 18 {
		writeError(w, http.StatusBadRequest, "age must be between 3 and 18")
		return in, false
	}
	return in, true
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeProfile(w, r)
	if !ok {
		return
	}
	p := &profileRec{
		Profile:   api.Profile{ID: newID(), Name: in.Name, Age: in.Age, CreatedAt: s.now().UTC()},
		accountID: claimsFrom(r).AccountID,
	}
	s.mu.Lock()
	s.profiles[p.ID] = p
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, p.Profile)
}

// ownedProfile returns the profile when it belongs to the caller. The caller
// must hold s.mu.
func (s *Server) ownedProfile(r *http.Request) *profileRec {
	p := s.profiles[chi.URLParam(r, "id")]
	if p == nil || p.accountID != claimsFrom(r).AccountID {
		return nil
	}
	return p
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeProfile(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ownedProfile(r)
	if p == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	p.Name, p.Age = in.Name, in.Age
	writeJSON(w, http.StatusOK, p.Profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ownedProfile(r)
	if p == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	delete(s.profiles, p.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := s.ownedProfile(r)
	s.mu.Unlock()
	if p == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	tok, err := s.issue(p.accountID, p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profile_token": tok})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	c := claimsFrom(r)
	sess := &session{
		Session: api.Session{
			ID:        newID(),
			ProfileID: c.ProfileID,
			CreatedAt: s.now().UTC(),
		},
		accountID: c.AccountID,
		scores:    make(map[string]int),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.log.Info("session created", "session", sess.ID, "profile", c.ProfileID)
	writeJSON(w, http.StatusCreated, sess.Session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	c := claimsFrom(r)
	s.mu.Lock()
	out := make([]api.Session, 0)
	for _, sess := range s.sessions {
		if sess.ProfileID == c.ProfileID {
			out = append(out, sess.Session)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	writeJSON(w, http.StatusOK, out)
}

// ownedSession returns the session when it belongs to the caller's profile.
// The caller must hold s.mu.
func (s *Server) ownedSession(r *http.Request) *session {
	sess := s.sessions[chi.URLParam(r, "id")]
	if sess == nil || sess.ProfileID != claimsFrom(r).ProfileID {
		return nil
	}
	return sess
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.ownedSession(r)
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, sess.Session)
}

func (s *Server) handleSubmitSection(w http.ResponseWriter, r *http.Request) {
	section, err := catalog.ParseTestType(chi.URLParam(r, "section"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var sub api.SectionSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if sub.Score < 0 || sub.Score > 100 {
		writeError(w, http.StatusBadRequest, "score must be between 0 and 100")
		return
	}

	risk, _ := sub.Details["risk"].(string)
	switch scoring.RiskLevel(risk) {
	case "", scoring.RiskLow, scoring.RiskMedium, scoring.RiskHigh:
	default:
		writeError(w, http.StatusBadRequest, "unknown risk level")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.ownedSession(r)
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	switch section {
	case catalog.Auditory:
		sess.AuditoryTaken = true
	case catalog.Visual:
		sess.VisualTaken = true
	case catalog.Language:
		sess.LanguageTaken = true
	}
	sess.scores[string(section)] = sub.Score
	sess.TotalScore = 0
	for _, v := range sess.scores {
		sess.TotalScore += v
	}
	if risk != "" {
		sess.Result = worstRisk(sess.Result, risk)
	}
	s.log.Info("section submitted", "session", sess.ID, "section", section, "score", sub.Score)
	writeJSON(w, http.StatusOK, sess.Session)
}

func worstRisk(current, next string) string {
	if current == "" {
		return next
	}
	if scoring.RiskLevel(next).Severity() > scoring.RiskLevel(current).Severity() {
		return next
	}
	return current
}

func (s *Server) handleSubmitMinigame(w http.ResponseWriter, r *http.Request) {
	game := chi.URLParam(r, "game")
	if _, err := minigame.Lookup(game); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var a minigame.Attempt
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if a.Score < 0 || a.Score > 100 {
		writeError(w, http.StatusBadRequest, "score must be between 0 and 100")
		return
	}
	s.mu.Lock()
	s.attempts[game] = append(s.attempts[game], a)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

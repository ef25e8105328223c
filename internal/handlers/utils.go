package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jason-s-yu/tbg/internal/game"
	log "github.com/sirupsen/logrus"
)

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	for _, part := range strings.Split(cookieHeader, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && name == cookieName {
			return value
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warnf("failed to encode response: %v", err)
	}
}

func writeSuccess(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"success": msg})
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps game errors onto HTTP statuses. Anything that is not a game error
// is reported as an internal failure without leaking its text.
func writeError(w http.ResponseWriter, err error) {
	var re *game.RuleError
	if !errors.As(err, &re) {
		log.Errorf("unexpected handler error: %v", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}
	status := http.StatusBadRequest
	if re.Kind == game.KindAuthorization {
		status = http.StatusForbidden
	}
	writeErrorMsg(w, status, err.Error())
}

// decodeBody reads a JSON request body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

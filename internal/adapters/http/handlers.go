package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"breathbloom/internal/adapters/bloomapi"
	"breathbloom/internal/adapters/http/middleware"
	"breathbloom/internal/application/orchestrators"
	"breathbloom/internal/application/projections"
	"breathbloom/internal/domain/aqi"
	"breathbloom/internal/domain/session"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// maxUploadBytes caps verification and avatar uploads.
const maxUploadBytes = 10 << 20

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// Flash is a one-shot toast carried across a redirect.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

const flashSessionName = "bloom_flash"

func addFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	s, _ := flashes.Get(r, flashSessionName)
	s.AddFlash(kind + "|" + message)
	if err := s.Save(r, w); err != nil {
		slog.Warn("flash_save_failed", "error", err)
	}
}

func popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	s, _ := flashes.Get(r, flashSessionName)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)
	out := make([]Flash, 0, len(raw))
	for _, f := range raw {
		text, ok := f.(string)
		if !ok {
			continue
		}
		kind, message, found := strings.Cut(text, "|")
		if !found {
			kind, message = "success", text
		}
		out = append(out, Flash{Kind: kind, Message: message})
	}
	return out
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data map[string]any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	theme := middleware.ThemeFromRequest(r)
	email := ""
	if loggedIn {
		theme = sess.Theme
		email = sess.Email
	}

	funcMap := template.FuncMap{
		"currentEmail": func() string { return email },
		"isLoggedIn":   func() bool { return loggedIn },
		"theme":        func() string { return theme },
		"csrfToken":    func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"toJSON": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = popFlashes(w, r)
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// failForm reports a failed form action: a flash plus redirect for browsers,
// a JSON error body otherwise. Backend rejections keep their message and
// status; anything else is reported generically.
func failForm(w http.ResponseWriter, r *http.Request, err error, redirectTo string) {
	message := "An unexpected error occurred. Please try again."
	status := http.StatusInternalServerError
	if rejection, ok := bloomapi.AsRejection(err); ok {
		message = rejection.Error()
		status = rejection.StatusCode
	} else if isFormError(err) {
		message = err.Error()
		status = http.StatusBadRequest
	} else {
		slog.Error("form_action_failed", "path", r.URL.Path, "error", err)
	}

	if isHTMLRequest(r) {
		addFlash(w, r, "error", message)
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// isFormError reports whether err is a local validation failure whose text is
// safe to show the user.
func isFormError(err error) bool {
	switch err {
	case orchestrators.ErrMissingFields,
		orchestrators.ErrMissingProfileFields,
		orchestrators.ErrNoCitySelected,
		orchestrators.ErrVerificationRequired,
		orchestrators.ErrMissingRecipient:
		return true
	}
	return false
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleIndex sends visitors to the page that fits their session state.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", nil)
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	input := orchestrators.LoginInput{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Age      string `json:"age"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input = orchestrators.LoginInput{Username: body.Username, Email: body.Email, Password: body.Password, Age: body.Age}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input = orchestrators.LoginInput{
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Age:      r.FormValue("age"),
		}
	}

	if err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{Backend: backend}); err != nil {
		failForm(w, r, err, "/login")
		return
	}

	token, err := sessions.Create(r.Context(), input.Email, middleware.ThemeFromRequest(r))
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/select-city", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Login successful"})
}

func handleSignupPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "signup.html", nil)
}

func handleSignup(w http.ResponseWriter, r *http.Request) {
	input := orchestrators.SignupInput{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Age      string `json:"age"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input = orchestrators.SignupInput{Username: body.Username, Email: body.Email, Password: body.Password, Age: body.Age}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input = orchestrators.SignupInput{
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Age:      r.FormValue("age"),
		}
	}

	if err := orchestrators.ExecuteSignup(r.Context(), input, orchestrators.SignupDeps{Backend: backend}); err != nil {
		failForm(w, r, err, "/signup")
		return
	}

	// A fresh account is signed in straight away and sent to pick a city.
	token, err := sessions.Create(r.Context(), input.Email, middleware.ThemeFromRequest(r))
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/select-city", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "User registered successfully"})
}

func handleSelectCityPage(w http.ResponseWriter, r *http.Request) {
	cities, err := backend.Cities(r.Context())
	if err != nil {
		slog.Warn("cities_fetch_failed", "error", err)
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "city.html", map[string]any{
			"Cities":      cities,
			"CitiesError": err != nil,
		})
		return
	}
	if err != nil {
		if rejection, ok := bloomapi.AsRejection(err); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(rejection.StatusCode)
			json.NewEncoder(w).Encode(map[string]string{"error": rejection.Error()})
			return
		}
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cities)
}

func handleSelectCity(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	city := ""
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			City string `json:"city"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		city = body.City
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		city = r.FormValue("city")
	}

	input := orchestrators.SelectCityInput{Email: sess.Email, City: city}
	if err := orchestrators.ExecuteSelectCity(r.Context(), input, orchestrators.SelectCityDeps{Backend: backend}); err != nil {
		failForm(w, r, err, "/select-city")
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "City selected"})
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	query := projections.GetDashboardQuery{Email: sess.Email}
	result, err := projections.QueryGetDashboard(r.Context(), query, projections.GetDashboardDeps{Backend: backend})
	if err != nil {
		// A rejected user lookup means the session points at a dead
		// account; sign the browser out rather than looping on errors.
		if rejection, ok := bloomapi.AsRejection(err); ok {
			if token, found := middleware.SessionTokenFromRequest(r); found {
				sessions.Delete(r.Context(), token)
			}
			middleware.ClearSessionCookie(w)
			addFlash(w, r, "error", rejection.Error())
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", map[string]any{
			"Profile":       result.Profile,
			"AQIError":      result.AQIError,
			"AQIValue":      result.AQIValue,
			"Category":      result.Category,
			"Label":         result.Label,
			"Progress":      result.Progress,
			"Effects":       result.Effects,
			"Tasks":         result.Tasks,
			"BadgeProgress": result.BadgeProgress,
			"History":       result.History,
			"Leaderboard":   result.Leaderboard,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func handleEffectDetail(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	effect, ok := aqi.FindEffect(name)
	if !ok {
		if isHTMLRequest(r) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Unknown health effect"})
		return
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "effect.html", map[string]any{
			"Effect": effect,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"name":        effect.Name,
		"description": effect.Description,
		"prevention":  effect.Prevention,
	})
}

func handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	points, _ := strconv.Atoi(r.FormValue("points"))
	hasMedia := false
	if file, _, err := r.FormFile("verification"); err == nil {
		// Presence is the verification; the file itself is not retained.
		file.Close()
		hasMedia = true
	}

	input := orchestrators.CompleteTaskInput{
		Email:    sess.Email,
		Task:     r.FormValue("task"),
		Points:   points,
		HasMedia: hasMedia,
	}
	result, err := orchestrators.ExecuteCompleteTask(r.Context(), input, orchestrators.CompleteTaskDeps{Backend: backend})
	if err != nil {
		failForm(w, r, err, "/dashboard")
		return
	}

	if isHTMLRequest(r) {
		for _, badge := range result.NewBadges {
			addFlash(w, r, "success", fmt.Sprintf("Congratulations! You've earned the %q badge!", badge))
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"user":       result.Profile,
		"new_badges": result.NewBadges,
	})
}

func handleProfilePage(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	query := projections.GetProfileQuery{Email: sess.Email}
	result, err := projections.QueryGetProfile(r.Context(), query, projections.GetProfileDeps{Backend: backend})
	if err != nil {
		if rejection, ok := bloomapi.AsRejection(err); ok {
			if token, found := middleware.SessionTokenFromRequest(r); found {
				sessions.Delete(r.Context(), token)
			}
			middleware.ClearSessionCookie(w)
			addFlash(w, r, "error", rejection.Error())
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "profile.html", map[string]any{
			"Profile":       result.Profile,
			"BadgeProgress": result.BadgeProgress,
			"Badges":        result.Badges,
			"Rewards":       result.Rewards,
			"ShareText":     result.ShareText,
			"EmailEnabled":  emailSender != nil,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.UpdateProfileInput{
		Email:    sess.Email,
		Username: r.FormValue("username"),
		NewEmail: r.FormValue("email"),
		Age:      r.FormValue("age"),
		City:     r.FormValue("city"),
	}
	if file, _, err := r.FormFile("profile_image"); err == nil {
		raw, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		file.Close()
		if readErr != nil {
			internalError(w, readErr)
			return
		}
		input.Image = raw
	}

	result, err := orchestrators.ExecuteUpdateProfile(r.Context(), input, orchestrators.UpdateProfileDeps{Backend: backend})
	if err != nil {
		failForm(w, r, err, "/profile")
		return
	}

	if result.EmailChanged {
		if token, found := middleware.SessionTokenFromRequest(r); found {
			if err := sessions.UpdateEmail(r.Context(), token, result.NewEmail); err != nil {
				internalError(w, err)
				return
			}
		}
	}

	if isHTMLRequest(r) {
		addFlash(w, r, "success", "Profile updated successfully!")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "User updated successfully",
		"user":    result.Profile,
	})
}

func handleRedeemReward(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	reward := ""
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Reward string `json:"reward"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		reward = body.Reward
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		reward = r.FormValue("reward")
	}

	input := orchestrators.RedeemRewardInput{Email: sess.Email, Reward: reward}
	if err := orchestrators.ExecuteRedeemReward(r.Context(), input, orchestrators.RedeemRewardDeps{Backend: backend}); err != nil {
		failForm(w, r, err, "/profile")
		return
	}

	if isHTMLRequest(r) {
		addFlash(w, r, "success", fmt.Sprintf("Reward %q redeemed successfully!", reward))
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Reward redeemed"})
}

func handleShare(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if emailSender == nil {
		http.Error(w, "Sharing by email is not configured", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	p, err := backend.User(r.Context(), sess.Email)
	if err != nil {
		failForm(w, r, err, "/profile")
		return
	}
	input := orchestrators.ShareInput{Profile: p, Recipient: r.FormValue("recipient")}
	if err := orchestrators.ExecuteShareByEmail(r.Context(), input, orchestrators.ShareDeps{Sender: emailSender}); err != nil {
		failForm(w, r, err, "/profile")
		return
	}

	if isHTMLRequest(r) {
		addFlash(w, r, "success", "Achievements shared by email!")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Achievements shared"})
}

func handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	next := session.FlipTheme(sess.Theme)
	if token, found := middleware.SessionTokenFromRequest(r); found {
		if err := sessions.UpdateTheme(r.Context(), token, next); err != nil {
			internalError(w, err)
			return
		}
	}
	// The device cookie keeps the preference across logout.
	middleware.SetThemeCookie(w, next)

	back := r.Header.Get("Referer")
	if back == "" {
		back = "/dashboard"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, found := middleware.SessionTokenFromRequest(r); found {
		sessions.Delete(r.Context(), token)
	}
	middleware.ClearSessionCookie(w)

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
}

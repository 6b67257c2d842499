package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dchest/captcha"
	"github.com/gorilla/csrf"
	"github.com/jmoiron/sqlx"

	"sched/auth"
	"sched/config"
	"sched/crypto"
	"sched/forms"
	"sched/i18n"
	"sched/logger"
	"sched/models"
	"sched/store"
)

// App carries the route layer's dependencies. The database handle is only
// used by the transaction middleware; handlers work on the per-request tx.
type App struct {
	DB          *sqlx.DB
	TemplateDir string
}

func New(db *sqlx.DB) *App {
	return &App{DB: db, TemplateDir: "templates"}
}

func (a *App) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", a.Index)
	mux.HandleFunc("/login/{$}", a.Login)
	mux.HandleFunc("GET /logout/{$}", a.Logout)

	mux.HandleFunc("GET /appointments/{$}", a.AppointmentList)
	mux.HandleFunc("GET /appointments/create/{$}", a.AppointmentCreate)
	mux.HandleFunc("POST /appointments/create/{$}", a.AppointmentCreate)
	mux.HandleFunc("GET /appointments/{id}/{$}", a.AppointmentDetail)
	mux.HandleFunc("/appointments/{id}/edit/{$}", a.AppointmentEdit)
	mux.HandleFunc("DELETE /appointments/{id}/delete/{$}", a.AppointmentDelete)

	mux.Handle("GET /captcha/", captcha.Server(captcha.StdWidth, captcha.StdHeight))

	// Everything else renders the generic not-found page.
	mux.HandleFunc("/", a.NotFound)
}

func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "index.html", map[string]any{
		"Authenticated": auth.CurrentUserID(r) != 0,
	})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	if auth.CurrentUserID(r) != 0 {
		http.Redirect(w, r, "/appointments/", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.renderLogin(w, r, forms.NewLoginForm(nil), "")
	case http.MethodPost:
		a.loginSubmit(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *App) loginSubmit(w http.ResponseWriter, r *http.Request) {
	ip := getClientIP(r)
	if !loginLimiter.Allow(ip) {
		a.renderLogin(w, r, forms.NewLoginForm(nil), "TooManyAttempts")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := forms.NewLoginForm(r.PostForm)
	if !form.Validate() {
		a.renderLogin(w, r, form, "")
		return
	}

	// After repeated failures a captcha must be solved as well.
	if loginLimiter.Failures(ip) >= captchaThreshold {
		if !captcha.VerifyString(r.PostFormValue("captcha_id"), r.PostFormValue("captcha_solution")) {
			loginLimiter.RecordFailure(ip)
			a.renderLogin(w, r, form, "CaptchaInvalid")
			return
		}
	}

	email := strings.ToLower(strings.TrimSpace(form.Username))
	password := strings.TrimSpace(form.Password)

	tx := RequestTx(r.Context())
	user, err := store.GetUserByEmail(tx, email)

	// Timing attack mitigation: always check a password
	digest := crypto.DummyHash
	if err == nil {
		digest = user.Password
	}
	match := crypto.CheckPasswordHash(password, digest)

	// One generic message for unknown account, inactive account, and wrong
	// password alike.
	if err != nil || !match || !user.Active {
		loginLimiter.RecordFailure(ip)
		a.renderLogin(w, r, form, "InvalidCredentials")
		return
	}

	loginLimiter.Reset(ip)
	auth.SetSession(w, r, user.ID)
	http.Redirect(w, r, "/appointments/", http.StatusSeeOther)
}

func (a *App) renderLogin(w http.ResponseWriter, r *http.Request, form *forms.LoginForm, errorKey string) {
	data := map[string]any{
		"Form":  form,
		"Error": errorKey,
	}
	if loginLimiter.Failures(getClientIP(r)) >= captchaThreshold {
		data["CaptchaID"] = captcha.New()
	}
	a.render(w, r, "login.html", data)
}

func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w, r)
	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

func (a *App) AppointmentList(w http.ResponseWriter, r *http.Request) {
	_, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	filter := store.AppointmentFilter{}
	when := r.URL.Query().Get("when")
	now := time.Now().UTC()
	switch when {
	case "upcoming":
		filter.StartAfter = &now
	case "past":
		filter.StartBefore = &now
	}

	appointments, err := store.ListAppointments(RequestTx(r.Context()), filter)
	if err != nil {
		a.serverError(w, err)
		return
	}

	a.render(w, r, "appointment_list.html", map[string]any{
		"Appointments": appointments,
		"When":         when,
	})
}

func (a *App) AppointmentDetail(w http.ResponseWriter, r *http.Request) {
	_, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		a.notFoundPage(w, r)
		return
	}

	appointment, err := store.GetAppointment(RequestTx(r.Context()), id)
	if errors.Is(err, store.ErrNotFound) {
		a.notFoundPage(w, r)
		return
	}
	if err != nil {
		a.serverError(w, err)
		return
	}

	a.render(w, r, "appointment_detail.html", map[string]any{
		"Appointment": appointment,
	})
}

func (a *App) AppointmentCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.renderAppointmentForm(w, r, forms.NewAppointmentForm(nil), "/appointments/create/", "NewAppointment")
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		form := forms.NewAppointmentForm(r.PostForm)
		if !form.Validate() {
			a.renderAppointmentForm(w, r, form, "/appointments/create/", "NewAppointment")
			return
		}

		// Ownership is fixed here, at creation.
		appointment := &models.Appointment{UserID: user.ID}
		form.Apply(appointment)

		if err := store.CreateAppointment(RequestTx(r.Context()), appointment); err != nil {
			a.serverError(w, err)
			return
		}
		http.Redirect(w, r, "/appointments/", http.StatusSeeOther)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *App) AppointmentEdit(w http.ResponseWriter, r *http.Request) {
	_, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		a.notFoundPage(w, r)
		return
	}

	tx := RequestTx(r.Context())
	appointment, err := store.GetAppointment(tx, id)
	if errors.Is(err, store.ErrNotFound) {
		a.notFoundPage(w, r)
		return
	}
	if err != nil {
		a.serverError(w, err)
		return
	}

	action := "/appointments/" + strconv.FormatInt(id, 10) + "/edit/"

	switch r.Method {
	case http.MethodGet:
		form := forms.AppointmentFormFromAppointment(appointment)
		a.renderAppointmentForm(w, r, form, action, "EditAppointment")
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		form := forms.NewAppointmentForm(r.PostForm)
		if !form.Validate() {
			a.renderAppointmentForm(w, r, form, action, "EditAppointment")
			return
		}

		form.Apply(appointment)
		if err := store.UpdateAppointment(tx, appointment); err != nil {
			a.serverError(w, err)
			return
		}
		http.Redirect(w, r, "/appointments/"+strconv.FormatInt(id, 10)+"/", http.StatusSeeOther)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

func (a *App) AppointmentDelete(w http.ResponseWriter, r *http.Request) {
	_, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendJSON(w, http.StatusNotFound, statusResponse{Status: "Not Found"})
		return
	}

	tx := RequestTx(r.Context())
	appointment, err := store.GetAppointment(tx, id)
	if errors.Is(err, store.ErrNotFound) {
		sendJSON(w, http.StatusNotFound, statusResponse{Status: "Not Found"})
		return
	}
	if err != nil {
		a.serverError(w, err)
		return
	}

	if err := store.DeleteAppointment(tx, appointment); err != nil {
		a.serverError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, statusResponse{Status: "OK"})
}

func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.notFoundPage(w, r)
}

// requireUser gates protected routes: anonymous requests, and cookies naming
// a user that no longer exists, are sent to the login page.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id := auth.CurrentUserID(r)
	if id == 0 {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return nil, false
	}

	user, err := store.GetUserByID(RequestTx(r.Context()), id)
	if err != nil {
		auth.ClearSession(w, r)
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return nil, false
	}
	return user, true
}

func (a *App) renderAppointmentForm(w http.ResponseWriter, r *http.Request, form *forms.AppointmentForm, action, headingKey string) {
	a.render(w, r, "appointment_form.html", map[string]any{
		"Form":    form,
		"Action":  action,
		"Heading": headingKey,
	})
}

func (a *App) notFoundPage(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	a.render(w, r, "404.html", nil)
}

func (a *App) serverError(w http.ResponseWriter, err error) {
	logger.Log.Errorw("internal server error", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (a *App) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	lang := i18n.DetectLanguage(r)

	funcMap := template.FuncMap{
		"T": func(key string) string {
			return i18n.T(lang, key)
		},
		"datetime": func(t time.Time) string {
			return t.Format("Mon, Jan 2 2006 15:04")
		},
	}

	tmpl, err := template.New(name).Funcs(funcMap).ParseFiles(
		filepath.Join(a.TemplateDir, "layout.html"),
		filepath.Join(a.TemplateDir, name),
	)
	if err != nil {
		a.serverError(w, err)
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	data["AppName"] = config.AppConfig.AppName
	data["Lang"] = lang
	data["csrfField"] = csrf.TemplateField(r)
	data["csrfToken"] = csrf.Token(r)

	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		logger.Log.Errorw("template execution failed", "template", name, "error", err)
	}
}

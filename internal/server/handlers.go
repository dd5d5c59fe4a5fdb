package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tartampluch/go-age-calculator/internal/config"
	"github.com/tartampluch/go-age-calculator/internal/engine"
	"github.com/tartampluch/go-age-calculator/internal/locale"
	"github.com/tartampluch/go-age-calculator/internal/ui/form"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// fieldView is one input column of the HTML form.
type fieldView struct {
	Name        string
	Label       string
	Placeholder string
	Value       string
	Error       string
	Min, Max    int
}

// resultView is one counter line under the form.
type resultView struct {
	Value string
	Unit  string
}

type pageView struct {
	Lang      string
	QueryLang string
	Title     string
	Submit    string
	Fields    []fieldView
	Results   []resultView
	Footer    string
}

// validationResponse is returned by the JSON API when a field is rejected.
type validationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HeaderContentType, config.MimeText)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(config.HTTPMsgHealthy))
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	allowed := config.AllowedMethodsForm
	if r.URL.Path == config.RouteAPIAge {
		allowed = config.AllowedMethodsAPI
	}
	w.Header().Set(config.HeaderAllow, allowed)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
}

// localizer picks the language from ?lang=, then Accept-Language, then the server default.
func (s *AgeServer) localizer(r *http.Request) (*locale.Localizer, string) {
	var prefs []string
	queryLang := r.URL.Query().Get(config.QueryLang)
	if queryLang != "" {
		prefs = append(prefs, queryLang)
	}
	if accept := r.Header.Get(config.HeaderAcceptLang); accept != "" {
		prefs = append(prefs, accept)
	}
	prefs = append(prefs, s.DefaultLang)

	if s.Translator == nil {
		return nil, queryLang
	}
	return s.Translator.Localizer(prefs...), queryLang
}

// handleForm renders the empty form with placeholder counters.
func (s *AgeServer) handleForm(w http.ResponseWriter, r *http.Request) {
	loc, queryLang := s.localizer(r)
	s.render(w, buildPage(loc, queryLang, form.NewState()))
}

// handleFormSubmit validates the posted fields and renders errors or the result.
func (s *AgeServer) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		slog.Warn(config.ErrParseForm,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
		http.Error(w, config.HTTPMsgBadRequest, http.StatusBadRequest)
		return
	}

	in := form.Input{
		Day:   r.PostFormValue(config.FieldDay),
		Month: r.PostFormValue(config.FieldMonth),
		Year:  r.PostFormValue(config.FieldYear),
	}
	state, err := form.Submit(form.NewState(), in, s.Calc)
	if err != nil {
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}
	s.record(state)

	loc, queryLang := s.localizer(r)
	s.render(w, buildPage(loc, queryLang, state))
}

// handleAPIAge answers {"day":..,"month":..,"year":..} with the age or per-field errors.
func (s *AgeServer) handleAPIAge(w http.ResponseWriter, r *http.Request) {
	var birth engine.BirthDate

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&birth); err != nil {
		slog.Debug(config.ErrDecodeBody,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
		http.Error(w, config.HTTPMsgBadRequest, http.StatusBadRequest)
		return
	}

	res := engine.Validate(birth)
	if !res.Valid {
		s.Metrics.observeRejection(res)
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Valid: false, Errors: res.Fields()})
		return
	}

	age, err := s.Calc.Calculate(birth)
	if errors.Is(err, engine.ErrBirthInFuture) {
		res = engine.ValidationResult{Year: engine.ViolationYearInPast}
		s.Metrics.observeRejection(res)
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Valid: false, Errors: res.Fields()})
		return
	}
	if err != nil {
		slog.Error(config.ErrCalculation,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	s.Metrics.observeCalculation(s.Calc.Algorithm)
	writeJSON(w, http.StatusOK, age)
}

// record feeds a form submission outcome to the metrics.
func (s *AgeServer) record(state form.State) {
	if !state.Errors.Valid {
		s.Metrics.observeRejection(state.Errors)
		return
	}
	s.Metrics.observeCalculation(s.Calc.Algorithm)
}

func buildPage(loc *locale.Localizer, queryLang string, state form.State) pageView {
	years, months, days := state.Display()

	return pageView{
		Lang:      loc.Lang(),
		QueryLang: queryLang,
		Title:     loc.Msg(config.TKeyWinTitle),
		Submit:    loc.Msg(config.TKeyBtnSubmit),
		Fields: []fieldView{
			{
				Name: config.FieldDay, Label: loc.Msg(config.TKeyLblDay), Placeholder: loc.Msg(config.TKeyPhDay),
				Value: state.Input.Day, Error: loc.Violation(state.Errors.Day),
				Min: config.MinDay, Max: config.MaxDay,
			},
			{
				Name: config.FieldMonth, Label: loc.Msg(config.TKeyLblMonth), Placeholder: loc.Msg(config.TKeyPhMonth),
				Value: state.Input.Month, Error: loc.Violation(state.Errors.Month),
				Min: config.MinMonth, Max: config.MaxMonth,
			},
			{
				Name: config.FieldYear, Label: loc.Msg(config.TKeyLblYear), Placeholder: loc.Msg(config.TKeyPhYear),
				Value: state.Input.Year, Error: loc.Violation(state.Errors.Year),
				Min: config.MinYear, Max: config.MaxYear,
			},
		},
		Results: []resultView{
			{Value: years, Unit: loc.Msg(config.TKeyUnitYears)},
			{Value: months, Unit: loc.Msg(config.TKeyUnitMonths)},
			{Value: days, Unit: loc.Msg(config.TKeyUnitDays)},
		},
		Footer: fmt.Sprintf(loc.Msg(config.TKeyLblFooter), config.Version),
	}
}

// render executes the page into a buffer first so a template error never
// leaves a half-written 200 response.
func (s *AgeServer) render(w http.ResponseWriter, view pageView) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		slog.Error(config.ErrRenderPage,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeHTML)
	w.Header().Set(config.HeaderContentLen, strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
	}
}

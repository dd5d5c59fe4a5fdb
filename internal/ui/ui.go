package ui

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-age-calculator/internal/config"
	"github.com/tartampluch/go-age-calculator/internal/engine"
	"github.com/tartampluch/go-age-calculator/internal/locale"
	"github.com/tartampluch/go-age-calculator/internal/ui/form"
)

// Maximum typed digits per entry.
const (
	dayDigits   = 2
	monthDigits = 2
	yearDigits  = 4
)

// fieldView groups the widgets of one input column.
type fieldView struct {
	label *widget.Label
	entry *NumericalEntry
	err   *widget.Label
}

// AgeApp is the desktop surface: one window holding the form and the counters.
type AgeApp struct {
	App       fyne.App
	Window    fyne.Window
	Ctx       context.Context
	Calc      *engine.Calculator
	Localizer *locale.Localizer

	// State is replaced on every submission and rendered by refresh.
	State form.State

	day, month, year fieldView
	submitBtn        *widget.Button
	yearsOut         *canvas.Text
	monthsOut        *canvas.Text
	daysOut          *canvas.Text
}

// NewAgeApp constructs the desktop surface and wires dependencies.
func NewAgeApp(a fyne.App, ctx context.Context, calc *engine.Calculator, loc *locale.Localizer) *AgeApp {
	return &AgeApp{
		App:       a,
		Ctx:       ctx,
		Calc:      calc,
		Localizer: loc,
		State:     form.NewState(),
	}
}

// Run shows the window and blocks until the application quits,
// either from the window or because Ctx was cancelled.
func (app *AgeApp) Run() {
	go app.quitOnDone()
	app.BuildWindow().Show()
	app.App.Run()
}

// quitOnDone bridges the context lifecycle to the Fyne event loop.
func (app *AgeApp) quitOnDone() {
	if app.Ctx == nil {
		return
	}
	<-app.Ctx.Done()
	slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompUI)
	app.App.Quit()
}

// BuildWindow creates the main window once and returns it.
func (app *AgeApp) BuildWindow() fyne.Window {
	if app.Window != nil {
		return app.Window
	}

	w := app.App.NewWindow(app.Localizer.Msg(config.TKeyWinTitle))
	app.Window = w

	app.day = app.newFieldView(config.TKeyLblDay, config.TKeyPhDay, dayDigits)
	app.month = app.newFieldView(config.TKeyLblMonth, config.TKeyPhMonth, monthDigits)
	app.year = app.newFieldView(config.TKeyLblYear, config.TKeyPhYear, yearDigits)

	app.submitBtn = widget.NewButtonWithIcon(app.Localizer.Msg(config.TKeyBtnSubmit), theme.MoveDownIcon(), app.submit)
	app.submitBtn.Importance = widget.HighImportance

	app.yearsOut = newCounter()
	app.monthsOut = newCounter()
	app.daysOut = newCounter()

	results := container.NewVBox(
		resultRow(app.yearsOut, app.Localizer.Msg(config.TKeyUnitYears)),
		resultRow(app.monthsOut, app.Localizer.Msg(config.TKeyUnitMonths)),
		resultRow(app.daysOut, app.Localizer.Msg(config.TKeyUnitDays)),
	)

	footer := widget.NewLabel(fmt.Sprintf(app.Localizer.Msg(config.TKeyLblFooter), config.Version))
	footer.Alignment = fyne.TextAlignCenter
	footer.TextStyle = fyne.TextStyle{Italic: true}

	w.SetContent(container.NewPadded(container.NewVBox(
		container.NewGridWithColumns(config.LayoutColumns,
			app.day.column(), app.month.column(), app.year.column()),
		app.submitBtn,
		widget.NewSeparator(),
		results,
		footer,
	)))
	w.Resize(fyne.NewSize(config.WindowWidth, config.WindowHeight))

	app.refresh()
	return w
}

func (app *AgeApp) newFieldView(labelKey, placeholderKey string, digits int) fieldView {
	entry := NewNumericalEntry(digits)
	entry.SetPlaceHolder(app.Localizer.Msg(placeholderKey))
	// Enter in any field submits, like the HTML form.
	entry.OnSubmitted = func(string) { app.submit() }

	errLabel := widget.NewLabel("")
	errLabel.Importance = widget.DangerImportance
	errLabel.Hide()

	label := widget.NewLabel(app.Localizer.Msg(labelKey))
	label.TextStyle = fyne.TextStyle{Bold: true}

	return fieldView{label: label, entry: entry, err: errLabel}
}

func (f fieldView) column() fyne.CanvasObject {
	return container.NewVBox(f.label, f.entry, f.err)
}

func (f fieldView) showViolation(msg string) {
	f.err.SetText(msg)
	if msg == "" {
		f.err.Hide()
		f.label.Importance = widget.MediumImportance
	} else {
		f.err.Show()
		f.label.Importance = widget.DangerImportance
	}
	f.label.Refresh()
}

func newCounter() *canvas.Text {
	t := canvas.NewText(config.ResultPlaceholder, theme.Color(theme.ColorNamePrimary))
	t.TextSize = config.ResultTextSize
	t.TextStyle = fyne.TextStyle{Bold: true, Italic: true}
	t.Alignment = fyne.TextAlignTrailing
	return t
}

func resultRow(counter *canvas.Text, unit string) fyne.CanvasObject {
	label := canvas.NewText(unit, theme.Color(theme.ColorNameForeground))
	label.TextSize = config.ResultTextSize
	label.TextStyle = fyne.TextStyle{Bold: true, Italic: true}
	return container.NewHBox(counter, label)
}

// submit reads the entries, runs the form binding and re-renders.
func (app *AgeApp) submit() {
	in := form.Input{
		Day:   app.day.entry.Text,
		Month: app.month.entry.Text,
		Year:  app.year.entry.Text,
	}

	slog.Debug(config.MsgFormSubmitted,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyDay, in.Day,
		config.LogKeyMonth, in.Month,
		config.LogKeyYear, in.Year)

	state, err := form.Submit(app.State, in, app.Calc)
	if err != nil {
		// Already logged by the form; the last rendering stays on screen.
		return
	}
	app.State = state
	app.refresh()
}

// refresh renders State into the widgets.
func (app *AgeApp) refresh() {
	app.day.showViolation(app.Localizer.Violation(app.State.Errors.Day))
	app.month.showViolation(app.Localizer.Violation(app.State.Errors.Month))
	app.year.showViolation(app.Localizer.Violation(app.State.Errors.Year))

	years, months, days := app.State.Display()
	for out, text := range map[*canvas.Text]string{
		app.yearsOut:  years,
		app.monthsOut: months,
		app.daysOut:   days,
	} {
		out.Text = text
		out.Refresh()
	}
}

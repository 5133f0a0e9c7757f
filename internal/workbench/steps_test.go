package workbench

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/draft"
	"github.com/mrsinham/consultbench/internal/patient"
	"github.com/mrsinham/consultbench/internal/persist"
	"github.com/mrsinham/consultbench/internal/timing"
)

var scenarioStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// countingStorage counts successful writes.
type countingStorage struct {
	*persist.MemoryStorage
	sets int
}

func (c *countingStorage) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.MemoryStorage.Set(ctx, key, value)
}

// recordingPrinter keeps the titles it was asked to print.
type recordingPrinter struct {
	titles []string
	pages  []string
}

func (p *recordingPrinter) Print(title, html string) error {
	p.titles = append(p.titles, title)
	p.pages = append(p.pages, html)
	return nil
}

// scenario holds state for a single scenario
type scenario struct {
	sched   *timing.ManualScheduler
	storage *countingStorage
	printer *recordingPrinter
	patient patient.Identity
	wb      *Workbench
	left    int
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	s := &scenario{}

	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if s.wb != nil {
			s.wb.Unmount()
		}
		return ctx, nil
	})

	sc.Step(`^a new consultation for "([^"]*)" aged (\d+)$`, s.aNewConsultation)
	sc.Step(`^the consultation is reloaded$`, s.theConsultationIsReloaded)

	sc.Step(`^I set the note "([^"]*)" to "([^"]*)"$`, s.iSetTheNote)
	sc.Step(`^I set the vital "([^"]*)" to "([^"]*)"$`, s.iSetTheVital)
	sc.Step(`^I add a prescription line "([^"]*)"$`, s.iAddAPrescriptionLine)
	sc.Step(`^I set the medication of line (\d+) to "([^"]*)"$`, s.iSetTheMedicationOfLine)
	sc.Step(`^I select the recipient "([^"]*)" for "([^"]*)"$`, s.iSelectTheRecipient)
	sc.Step(`^(\d+)ms pass(?:es)?$`, s.timePasses)

	sc.Step(`^the note "([^"]*)" should be "([^"]*)"$`, s.theNoteShouldBe)
	sc.Step(`^the vital "([^"]*)" should be "([^"]*)"$`, s.theVitalShouldBe)
	sc.Step(`^the BMI should be "([^"]*)"$`, s.theBMIShouldBe)
	sc.Step(`^the prescription should (not )?be complete$`, s.thePrescriptionShouldBeComplete)
	sc.Step(`^the completion should be (\d+) of 5$`, s.theCompletionShouldBe)
	sc.Step(`^the next action should be "([^"]*)"$`, s.theNextActionShouldBe)
	sc.Step(`^I run the next action$`, s.iRunTheNextAction)

	sc.Step(`^I open the "([^"]*)" wizard$`, s.iOpenTheWizard)
	sc.Step(`^I resume the "([^"]*)" wizard$`, s.iResumeTheWizard)
	sc.Step(`^I press primary (\d+) times?$`, s.iPressPrimary)
	sc.Step(`^the wizard should be open on "([^"]*)" at step "([^"]*)"$`, s.theWizardShouldBeOpenOn)
	sc.Step(`^the wizard should be closed$`, s.theWizardShouldBeClosed)
	sc.Step(`^"([^"]*)" should (not )?be signed$`, s.shouldBeSigned)
	sc.Step(`^"([^"]*)" should be signed at the start time$`, s.shouldBeSignedAtStart)
	sc.Step(`^the feedback should be "([^"]*)"$`, s.theFeedbackShouldBe)
	sc.Step(`^the feedback should be empty$`, s.theFeedbackShouldBeEmpty)

	sc.Step(`^I press "([^"]*)"$`, s.iPress)
	sc.Step(`^I type "([^"]*)"$`, s.iType)
	sc.Step(`^the palette should be (open|closed)$`, s.thePaletteShouldBe)
	sc.Step(`^the first result should be "([^"]*)"$`, s.theFirstResultShouldBe)
	sc.Step(`^the palette should show (\d+) results?$`, s.thePaletteShouldShow)
	sc.Step(`^the key "([^"]*)" should not be consumed$`, s.theKeyShouldNotBeConsumed)
	sc.Step(`^the printer should have received "([^"]*)"$`, s.thePrinterShouldHaveReceived)

	sc.Step(`^(\d+) drafts? should have been written$`, s.draftsShouldHaveBeenWritten)
	sc.Step(`^I close the consultation$`, s.iCloseTheConsultation)
	sc.Step(`^no draft should be stored$`, s.noDraftShouldBeStored)
	sc.Step(`^the host should have been told to leave$`, s.theHostShouldHaveBeenToldToLeave)
}

func (s *scenario) mount() error {
	wb, err := New(Options{
		Patient:   s.patient,
		Storage:   s.storage,
		Scheduler: s.sched,
		Clock:     s.sched,
		Printer:   s.printer,
		Navigator: NavigatorFunc(func() { s.left++ }),
	})
	if err != nil {
		return err
	}
	wb.Mount(context.Background())
	s.wb = wb
	return nil
}

func (s *scenario) aNewConsultation(name string, age int) error {
	s.sched = timing.NewManualScheduler(scenarioStart)
	s.storage = &countingStorage{MemoryStorage: persist.NewMemoryStorage()}
	s.printer = &recordingPrinter{}
	s.patient = patient.Identity{Name: name, Age: age}
	return s.mount()
}

func (s *scenario) theConsultationIsReloaded() error {
	s.wb.Unmount()
	return s.mount()
}

func (s *scenario) iSetTheNote(field, value string) error {
	return s.wb.Draft.SetNote(draft.NoteField(field), value)
}

func (s *scenario) iSetTheVital(field, value string) error {
	return s.wb.Draft.SetVital(draft.VitalField(field), value)
}

func (s *scenario) iAddAPrescriptionLine(medication string) error {
	s.wb.Draft.AddItem(draft.Item{Medication: medication})
	return nil
}

func (s *scenario) iSetTheMedicationOfLine(line int, medication string) error {
	return s.wb.Draft.UpdateItem(line-1, draft.ItemMedication, medication)
}

func (s *scenario) iSelectTheRecipient(recipient, docType string) error {
	return s.wb.Draft.SetRecipient(document.Type(docType), document.Recipient(recipient), true)
}

func (s *scenario) timePasses(ms int) error {
	s.sched.Advance(time.Duration(ms) * time.Millisecond)
	return nil
}

func (s *scenario) theNoteShouldBe(field, want string) error {
	if got := s.wb.Draft.Note(draft.NoteField(field)); got != want {
		return fmt.Errorf("note %s = %q, want %q", field, got, want)
	}
	return nil
}

func (s *scenario) theVitalShouldBe(field, want string) error {
	if got := s.wb.Draft.Vital(draft.VitalField(field)); got != want {
		return fmt.Errorf("vital %s = %q, want %q", field, got, want)
	}
	return nil
}

func (s *scenario) theBMIShouldBe(want string) error {
	if got, _ := s.wb.Draft.BMI(); got != want {
		return fmt.Errorf("BMI = %q, want %q", got, want)
	}
	return nil
}

func (s *scenario) thePrescriptionShouldBeComplete(not string) error {
	want := not == ""
	if got := s.wb.Status().RxOK; got != want {
		return fmt.Errorf("rxOK = %v, want %v", got, want)
	}
	return nil
}

func (s *scenario) theCompletionShouldBe(done int) error {
	st := s.wb.Status()
	if st.Done != done || st.Total != 5 {
		return fmt.Errorf("completion = %d/%d, want %d/5", st.Done, st.Total, done)
	}
	return nil
}

func (s *scenario) theNextActionShouldBe(want string) error {
	if got := s.wb.Next().Action.String(); got != want {
		return fmt.Errorf("next action = %s, want %s", got, want)
	}
	return nil
}

func (s *scenario) iRunTheNextAction() error {
	return s.wb.RunNext(context.Background())
}

func (s *scenario) iOpenTheWizard(docType string) error {
	return s.wb.Wizard.Open(document.Type(docType))
}

func (s *scenario) iResumeTheWizard(docType string) error {
	return s.wb.OpenDocument(document.Type(docType))
}

func (s *scenario) iPressPrimary(n int) error {
	for i := 0; i < n; i++ {
		if _, err := s.wb.Wizard.Primary(); err != nil {
			return err
		}
	}
	return nil
}

func (s *scenario) theWizardShouldBeOpenOn(docType, step string) error {
	w := s.wb.Wizard
	if !w.IsOpen() {
		return errors.New("wizard is closed")
	}
	if string(w.Type()) != docType || w.StepLabel() != step {
		return fmt.Errorf("wizard on %s/%s, want %s/%s", w.Type(), w.StepLabel(), docType, step)
	}
	return nil
}

func (s *scenario) theWizardShouldBeClosed() error {
	if s.wb.Wizard.IsOpen() {
		return errors.New("wizard is open")
	}
	return nil
}

func (s *scenario) shouldBeSigned(docType, not string) error {
	signed := s.wb.Draft.Artifact(document.Type(docType)).SignedAt != nil
	if want := not == ""; signed != want {
		return fmt.Errorf("%s signed = %v, want %v", docType, signed, want)
	}
	return nil
}

func (s *scenario) shouldBeSignedAtStart(docType string) error {
	at := s.wb.Draft.Artifact(document.Type(docType)).SignedAt
	if at == nil || !at.Equal(scenarioStart) {
		return fmt.Errorf("%s signed at %v, want %v", docType, at, scenarioStart)
	}
	return nil
}

func (s *scenario) theFeedbackShouldBe(want string) error {
	if got := s.wb.Wizard.Feedback(); got != want {
		return fmt.Errorf("feedback = %q, want %q", got, want)
	}
	return nil
}

func (s *scenario) theFeedbackShouldBeEmpty() error {
	return s.theFeedbackShouldBe("")
}

func (s *scenario) iPress(key string) error {
	s.wb.HandleKey(key)
	return nil
}

func (s *scenario) iType(text string) error {
	for _, r := range text {
		s.wb.HandleKey(string(r))
	}
	return nil
}

func (s *scenario) thePaletteShouldBe(state string) error {
	if open := s.wb.Palette.IsOpen(); open != (state == "open") {
		return fmt.Errorf("palette open = %v, want %s", open, state)
	}
	return nil
}

func (s *scenario) theFirstResultShouldBe(label string) error {
	results := s.wb.Palette.Results()
	if len(results) == 0 {
		return errors.New("no results")
	}
	if results[0].Label != label {
		return fmt.Errorf("first result = %q, want %q", results[0].Label, label)
	}
	return nil
}

func (s *scenario) thePaletteShouldShow(n int) error {
	if got := len(s.wb.Palette.Results()); got != n {
		return fmt.Errorf("palette shows %d results, want %d", got, n)
	}
	return nil
}

func (s *scenario) theKeyShouldNotBeConsumed(key string) error {
	if s.wb.HandleKey(key) {
		return fmt.Errorf("key %q was consumed", key)
	}
	return nil
}

func (s *scenario) thePrinterShouldHaveReceived(title string) error {
	for _, t := range s.printer.titles {
		if t == title {
			return nil
		}
	}
	return fmt.Errorf("printer received %v, want %q", s.printer.titles, title)
}

func (s *scenario) draftsShouldHaveBeenWritten(n int) error {
	if s.storage.sets != n {
		return fmt.Errorf("%d drafts written, want %d", s.storage.sets, n)
	}
	return nil
}

func (s *scenario) iCloseTheConsultation() error {
	return s.wb.CloseConsultation(context.Background())
}

func (s *scenario) noDraftShouldBeStored() error {
	if n := s.storage.Len(); n != 0 {
		return fmt.Errorf("%d drafts stored, want none", n)
	}
	return nil
}

func (s *scenario) theHostShouldHaveBeenToldToLeave() error {
	if s.left != 1 {
		return fmt.Errorf("navigator called %d times, want 1", s.left)
	}
	return nil
}

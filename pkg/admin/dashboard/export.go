package dashboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"
)

const (
	csvTimeLayout = "2006-01-02 15:04:05"

	topEmotionsBar   = 10
	topEmotionsTrend = 5
)

// userStatus labels a user by recent writing activity, not account status.
func userStatus(lastEntry *time.Time, now time.Time) string {
	if lastEntry != nil && !lastEntry.Before(now.Add(-ActiveWindow)) {
		return "Active"
	}
	return "Inactive"
}

func (a *Aggregator) allUsers(ctx context.Context, uow unitofwork.UnitOfWork) ([]*entity.UserSummary, error) {
	return uow.UserRepository().ListSummaries(ctx, "", -1, -1)
}

// WriteUsersCSV writes one row per user.
func (a *Aggregator) WriteUsersCSV(ctx context.Context, uow unitofwork.UnitOfWork, w io.Writer) error {
	users, err := a.allUsers(ctx, uow)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	writeUsers(cw, users, a.now())
	cw.Flush()
	return cw.Error()
}

func writeUsers(cw *csv.Writer, users []*entity.UserSummary, now time.Time) {
	cw.Write([]string{"Email", "Registration Date", "Status", "Entries"})
	for _, u := range users {
		cw.Write([]string{
			u.Email,
			u.CreatedAt.Format(csvTimeLayout),
			userStatus(u.LastEntryAt, now),
			strconv.FormatInt(u.EntryCount, 10),
		})
	}
}

// WriteEntriesCSV writes every journal entry without its text.
func (a *Aggregator) WriteEntriesCSV(ctx context.Context, uow unitofwork.UnitOfWork, w io.Writer) error {
	users, err := a.allUsers(ctx, uow)
	if err != nil {
		return err
	}
	entries, err := uow.JournalRepository().FindAll(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	writeEntries(cw, entries, emailIndex(users))
	cw.Flush()
	return cw.Error()
}

func emailIndex(users []*entity.UserSummary) map[string]string {
	idx := make(map[string]string, len(users))
	for _, u := range users {
		idx[u.Id.String()] = u.Email
	}
	return idx
}

func writeEntries(cw *csv.Writer, entries []*entity.JournalEntry, emails map[string]string) {
	cw.Write([]string{"User", "Emotion", "Confidence", "Timestamp"})
	for _, e := range entries {
		user := emails[e.UserId.String()]
		if user == "" {
			user = e.UserId.String()
		}
		cw.Write([]string{
			user,
			e.Emotion,
			strconv.FormatFloat(e.Confidence, 'f', 4, 64),
			e.CreatedAt.Format(csvTimeLayout),
		})
	}
}

// ReportData is everything the full admin report contains.
type ReportData struct {
	Users         []*entity.UserSummary
	Registrations []entity.DateCount
	Activity      []entity.DateCount
	Emotions      []entity.EmotionTotal
	Weekly        []entity.WeeklyEmotionCount
	Entries       []*entity.JournalEntry
}

func (a *Aggregator) loadReport(ctx context.Context, uow unitofwork.UnitOfWork) (*ReportData, error) {
	var (
		r   ReportData
		err error
	)
	if r.Users, err = a.allUsers(ctx, uow); err != nil {
		return nil, err
	}
	if r.Registrations, err = uow.UserRepository().RegistrationsByMonth(ctx, a.location); err != nil {
		return nil, err
	}
	if r.Activity, err = uow.JournalRepository().ActivityByDay(ctx, a.location); err != nil {
		return nil, err
	}
	if r.Emotions, err = uow.JournalRepository().EmotionTotals(ctx); err != nil {
		return nil, err
	}
	if r.Weekly, err = uow.JournalRepository().WeeklyEmotionCounts(ctx, a.location); err != nil {
		return nil, err
	}
	if r.Entries, err = uow.JournalRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true}); err != nil {
		return nil, err
	}
	return &r, nil
}

// WriteReportCSV writes the full admin report: several CSV tables, each
// introduced by a "=== TITLE ===" line. Empty sections are omitted.
func (a *Aggregator) WriteReportCSV(ctx context.Context, uow unitofwork.UnitOfWork, w io.Writer) error {
	data, err := a.loadReport(ctx, uow)
	if err != nil {
		return err
	}
	return WriteReport(w, data, a.now())
}

type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) section(title string, body func(cw *csv.Writer)) {
	if rw.err != nil {
		return
	}
	if _, rw.err = fmt.Fprintf(rw.w, "\n=== %s ===\n", title); rw.err != nil {
		return
	}
	cw := csv.NewWriter(rw.w)
	body(cw)
	cw.Flush()
	if rw.err = cw.Error(); rw.err != nil {
		return
	}
	_, rw.err = io.WriteString(rw.w, "\n")
}

func WriteReport(w io.Writer, data *ReportData, now time.Time) error {
	rw := &reportWriter{w: w}

	if len(data.Users) > 0 {
		rw.section("USERS", func(cw *csv.Writer) { writeUsers(cw, data.Users, now) })
	}
	if len(data.Registrations) > 0 {
		rw.section("USER REGISTRATION CHART DATA", func(cw *csv.Writer) {
			writeDateCounts(cw, "Month", "Registration Count", data.Registrations)
		})
	}
	if len(data.Activity) > 0 {
		rw.section("JOURNAL ACTIVITY CHART DATA", func(cw *csv.Writer) {
			writeDateCounts(cw, "Date", "Entry Count", data.Activity)
		})
	}
	if len(data.Emotions) > 0 {
		rw.section("EMOTION DISTRIBUTION CHART DATA", func(cw *csv.Writer) {
			writeEmotionTotals(cw, data.Emotions)
		})
		rw.section("TOP EMOTIONS BAR CHART DATA", func(cw *csv.Writer) {
			writeEmotionTotals(cw, head(data.Emotions, topEmotionsBar))
		})
		if len(data.Weekly) > 0 {
			rw.section("EMOTION TRENDS CHART DATA", func(cw *csv.Writer) {
				writeTrends(cw, data.Weekly, head(data.Emotions, topEmotionsTrend))
			})
		}
	}
	if len(data.Entries) > 0 {
		rw.section("RAW JOURNAL ENTRIES (REFERENCE)", func(cw *csv.Writer) {
			writeEntries(cw, data.Entries, emailIndex(data.Users))
		})
	}
	return rw.err
}

func head(rows []entity.EmotionTotal, n int) []entity.EmotionTotal {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func writeDateCounts(cw *csv.Writer, dateCol, countCol string, rows []entity.DateCount) {
	cw.Write([]string{dateCol, countCol})
	for _, r := range rows {
		cw.Write([]string{r.Date, strconv.FormatInt(r.Count, 10)})
	}
}

func writeEmotionTotals(cw *csv.Writer, rows []entity.EmotionTotal) {
	cw.Write([]string{"Emotion", "Count"})
	for _, r := range rows {
		cw.Write([]string{r.Emotion, strconv.FormatInt(r.Count, 10)})
	}
}

// writeTrends keeps only the weekly rows of the given top emotions.
func writeTrends(cw *csv.Writer, rows []entity.WeeklyEmotionCount, top []entity.EmotionTotal) {
	keep := make(map[string]bool, len(top))
	for _, t := range top {
		keep[t.Emotion] = true
	}
	cw.Write([]string{"Week", "Emotion", "Count"})
	for _, r := range rows {
		if keep[r.Emotion] {
			cw.Write([]string{r.Week, r.Emotion, strconv.FormatInt(r.Count, 10)})
		}
	}
}

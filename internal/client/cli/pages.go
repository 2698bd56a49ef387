package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/jobswipe/internal/client/guard"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/dmitrijs2005/jobswipe/internal/client/optimistic"
)

const (
	routeFeed      = "/feed"
	routeBookmarks = "/bookmarks"
	routeApplied   = "/applied"
	routeDashboard = "/dashboard"
)

// Feed prints the latest tech news. An optional argument caps the count.
func (a *App) Feed(ctx context.Context, args []string) error {
	if !a.navigate(routeFeed) {
		return nil
	}

	limit := feedLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			a.println("Usage: feed [count]")
			return errUsage
		}
		limit = n
	}

	articles := a.feed.Articles(ctx, limit)
	if len(articles) == 0 {
		a.println("No news right now.")
		return nil
	}
	for i, art := range articles {
		a.println(fmt.Sprintf("%2d. %s (%s)", i+1, art.Title, art.Source))
		a.println("    " + art.URL)
	}
	return nil
}

// Jobs loads the swipe queue and shows the card on top.
func (a *App) Jobs(ctx context.Context, _ []string) error {
	if !a.navigate(guard.RouteJobs) {
		return nil
	}
	if err := a.queue.Load(ctx); err != nil {
		a.println("Could not load jobs:", err)
		return err
	}
	a.showCurrentJob()
	return nil
}

// Swipe records a left/right decision on the current card, or on the job
// whose id is given. The next card is shown right away; the outcome of the
// request is reported when it arrives.
func (a *App) Swipe(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: swipe <left|right> [job-id]")
		return errUsage
	}
	dir := models.Direction(strings.ToLower(args[0]))
	if !dir.Valid() {
		a.println("Direction must be left or right.")
		return errUsage
	}
	if !a.navigate(guard.RouteJobs) {
		return nil
	}

	id, ok := a.targetJob(args[1:])
	if !ok {
		return nil
	}

	track(ctx, a, a.queue.Swipe(ctx, id, dir), func(r optimistic.Result[models.Job]) {
		if m, ok := r.Effect.(*models.Match); ok && m != nil {
			a.println(fmt.Sprintf("It's a match with %s!", r.Item.Company.Name))
			if m.ExplainabilityJSON.Reason != "" {
				a.println("Why:", m.ExplainabilityJSON.Reason)
			}
		}
	})
	a.showCurrentJob()
	return nil
}

// Save bookmarks a job with optional notes. The first argument names the job
// only when it is the id of a queued job; otherwise the card on top is saved
// and every argument is part of the notes.
func (a *App) Save(ctx context.Context, args []string) error {
	if !a.navigate(guard.RouteJobs) {
		return nil
	}

	var target []string
	if len(args) > 0 && a.queued(args[0]) {
		target, args = args[:1], args[1:]
	}
	id, ok := a.targetJob(target)
	if !ok {
		return nil
	}
	notes := strings.Join(args, " ")

	track(ctx, a, a.queue.Bookmark(ctx, id, notes), func(r optimistic.Result[models.Job]) {
		a.println("Saved", r.Item.Company.Name, "to bookmarks.")
	})
	a.showCurrentJob()
	return nil
}

// Bookmarks lists saved jobs.
func (a *App) Bookmarks(ctx context.Context, _ []string) error {
	if !a.navigate(routeBookmarks) {
		return nil
	}
	if err := a.bookmarks.Load(ctx); err != nil {
		a.println("Could not load bookmarks:", err)
		return err
	}

	items := a.bookmarks.Items()
	if len(items) == 0 {
		a.println("No bookmarks yet.")
		return nil
	}
	for _, b := range items {
		line := b.JobID
		if b.Job != nil {
			line += "  " + jobTitle(b.Job, "")
		}
		if b.Notes != "" {
			line += "  - " + b.Notes
		}
		a.println(line)
	}
	return nil
}

// Unbookmark removes the bookmark of a job.
func (a *App) Unbookmark(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: unbookmark <job-id>")
		return errUsage
	}
	if !a.navigate(routeBookmarks) {
		return nil
	}

	track(ctx, a, a.bookmarks.Remove(ctx, args[0]), func(optimistic.Result[models.Bookmark]) {
		a.println("Bookmark removed.")
	})
	return nil
}

// Applied lists applications, optionally filtered by status.
func (a *App) Applied(ctx context.Context, args []string) error {
	if !a.navigate(routeApplied) {
		return nil
	}

	var status models.ApplicationStatus
	if len(args) > 0 {
		status = models.ApplicationStatus(strings.ToLower(args[0]))
	}
	if err := a.applications.Load(ctx, status); err != nil {
		a.println("Could not load applications:", err)
		return err
	}

	items := a.applications.Items()
	if len(items) == 0 {
		a.println(fmt.Sprintf("No applications (filter: %s).", a.applications.Filter()))
		return nil
	}
	for _, app := range items {
		a.println(fmt.Sprintf("%s  %-10s %s", app.ID, app.Status, jobTitle(app.Job, app.JobID)))
	}
	return nil
}

// Withdraw retracts an application.
func (a *App) Withdraw(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: withdraw <application-id>")
		return errUsage
	}
	if !a.navigate(routeApplied) {
		return nil
	}

	track(ctx, a, a.applications.Withdraw(ctx, args[0]), func(optimistic.Result[models.Application]) {
		a.println("Application withdrawn.")
	})
	return nil
}

// Dashboard prints the candidate's statistics.
func (a *App) Dashboard(ctx context.Context, _ []string) error {
	if !a.navigate(routeDashboard) {
		return nil
	}

	s, err := a.dashboard.Load(ctx)
	if err != nil {
		a.println("Could not load dashboard:", err)
		return err
	}

	an := s.Analytics
	a.println(fmt.Sprintf("Swipes: %d  Matches: %d  Applications: %d  Profile views: %d",
		an.SwipesMade, an.TotalMatches, an.TotalApplications, an.ProfileViews))
	for _, sh := range s.Shares {
		a.println(fmt.Sprintf("  %-10s %3d  %3d%%", sh.Status, sh.Count, sh.Percent))
	}
	return nil
}

// targetJob resolves an explicit id argument or the card on top.
func (a *App) targetJob(args []string) (string, bool) {
	if len(args) > 0 {
		return args[0], true
	}
	job, ok := a.queue.Current()
	if !ok {
		a.println("No job on screen. Type 'jobs' to load the queue.")
		return "", false
	}
	return job.ID, true
}

func (a *App) queued(id string) bool {
	for _, j := range a.queue.Remaining() {
		if j.ID == id {
			return true
		}
	}
	return false
}

func (a *App) showCurrentJob() {
	job, ok := a.queue.Current()
	if !ok {
		a.println("You're all caught up. No more jobs for now.")
		return
	}

	a.println(fmt.Sprintf("[%s] %s", job.ID, job.Company.Name))
	a.println("  " + job.ProblemStatement)
	if len(job.SkillsRequired) > 0 {
		a.println("  Skills: " + strings.Join(job.SkillsRequired, ", "))
	}
	if c := job.Constraints; c != nil && c.Location != "" {
		a.println(fmt.Sprintf("  %s, %s", c.Location, c.EmploymentType))
	}
	a.println(fmt.Sprintf("  (%d in queue)", len(a.queue.Remaining())))
}

// track reports the outcome of an optimistic action once it arrives.
// onSuccess runs for Done and Effect outcomes.
func track[T optimistic.Keyed](ctx context.Context, a *App, ch <-chan optimistic.Result[T], onSuccess func(optimistic.Result[T])) {
	a.pending.Add(1)
	go func() {
		defer a.pending.Done()

		r, ok := <-ch
		if !ok {
			return
		}
		switch r.Outcome {
		case optimistic.Done, optimistic.Effect:
			onSuccess(r)
		case optimistic.Skipped:
			a.println("Nothing to do for", r.Key+".")
		default:
			a.log.Warn(ctx, "optimistic action rolled back", "key", r.Key, "outcome", r.Outcome, "error", r.Err)
			a.println(r.Message())
		}
	}()
}

func jobTitle(j *models.Job, fallback string) string {
	if j == nil {
		return fallback
	}
	if j.Company.Name == "" {
		return j.ProblemStatement
	}
	return j.Company.Name + ": " + j.ProblemStatement
}

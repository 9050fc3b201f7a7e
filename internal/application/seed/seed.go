// Package seed loads the demo data set: three statuses, three priorities,
// four categories, three users and eight tasks.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// Summary counts what Run inserted
type Summary struct {
	Users      int
	Categories int
	Statuses   int
	Priorities int
	Tasks      int
}

type refSeed struct {
	name  string
	color string
}

type categorySeed struct {
	name  string
	color string
	icon  string
}

type userSeed struct {
	name   string
	email  string
	avatar string
}

type taskSeed struct {
	title       string
	description string
	image       string
	vital       bool
	status      string
	priority    string
	category    string
	assignee    string
	dueDate     string
	completedAt string
	createdAt   string
}

var statuses = []refSeed{
	{entities.StatusNameNotStarted, "#ef4444"},
	{entities.StatusNameInProgress, "#3b82f6"},
	{entities.StatusNameCompleted, "#22c55e"},
}

var priorities = []refSeed{
	{"Extreme", "#ef4444"},
	{"Moderate", "#f97316"},
	{"Low", "#22c55e"},
}

var categories = []categorySeed{
	{"Personal", "#8b5cf6", "user"},
	{"Work", "#3b82f6", "briefcase"},
	{"Health", "#22c55e", "heart"},
	{"Family", "#ec4899", "home"},
}

// The first user owns every seeded task
var users = []userSeed{
	{"Demo User", "demo@example.com", "https://randomuser.me/api/portraits/men/32.jpg"},
	{"Sarah Johnson", "sarah.johnson@example.com", "https://randomuser.me/api/portraits/women/44.jpg"},
	{"Mike Chen", "mike.chen@example.com", "https://randomuser.me/api/portraits/men/52.jpg"},
}

var tasks = []taskSeed{
	{
		title:       "Attend Nischal's Birthday Party",
		description: "Buy gifts on the way and pick up cake from the bakery. (6 PM | Fresh Elements)",
		image:       "https://images.unsplash.com/photo-1530103862676-de8c9debad1d?w=400",
		status:      entities.StatusNameNotStarted,
		priority:    "Moderate",
		category:    "Personal",
		createdAt:   "2023-06-20",
	},
	{
		title:       "Landing Page Design for TravelDays",
		description: "Get the work done by EOD and discuss with client before leaving. (4 PM | Meeting Room)",
		image:       "https://images.unsplash.com/photo-1488646953014-85cb44e25828?w=400",
		status:      entities.StatusNameInProgress,
		priority:    "Moderate",
		category:    "Work",
		assignee:    "Sarah Johnson",
		createdAt:   "2023-06-20",
	},
	{
		title:       "Presentation on Final Product",
		description: "Make sure everything is functioning and all the necessities are properly met. Prepare the team and get the documents ready for...",
		image:       "https://images.unsplash.com/photo-1557804506-669a67965ba0?w=400",
		status:      entities.StatusNameInProgress,
		priority:    "Moderate",
		category:    "Work",
		createdAt:   "2023-06-19",
	},
	{
		title:       "Walk the dog",
		description: "Take the dog to the park and bring treats as well.",
		image:       "https://images.unsplash.com/photo-1587300003388-59208cc962cb?w=400",
		vital:       true,
		status:      entities.StatusNameNotStarted,
		priority:    "Extreme",
		category:    "Personal",
		createdAt:   "2023-06-20",
	},
	{
		title:       "Take grandma to hospital",
		description: "Go back home and take grandma to the hosp....",
		image:       "https://images.unsplash.com/photo-1576091160550-2173dba999ef?w=400",
		vital:       true,
		status:      entities.StatusNameInProgress,
		priority:    "Moderate",
		category:    "Family",
		createdAt:   "2023-06-20",
	},
	{
		title:       "Conduct meeting",
		description: "Meet with the client and finalize requirements.",
		image:       "https://images.unsplash.com/photo-1573164713988-8665fc963095?w=400",
		status:      entities.StatusNameCompleted,
		priority:    "Moderate",
		category:    "Work",
		completedAt: "2023-06-18",
		createdAt:   "2023-06-15",
	},
	{
		title:       "Morning Exercise Routine",
		description: "30 minutes cardio + 20 minutes strength training",
		status:      entities.StatusNameCompleted,
		priority:    "Low",
		category:    "Health",
		completedAt: "2023-06-20",
		createdAt:   "2023-06-20",
	},
	{
		title:       "Weekly Team Sync",
		description: "Discuss project progress and blockers with the team",
		status:      entities.StatusNameNotStarted,
		priority:    "Moderate",
		category:    "Work",
		assignee:    "Mike Chen",
		dueDate:     "2023-06-25",
		createdAt:   "2023-06-20",
	},
}

// Run inserts the demo data through repos. It does not clear existing rows.
func Run(ctx context.Context, repos ports.Repositories) (Summary, error) {
	var sum Summary
	now := time.Now().UTC()

	statusIDs, err := seedReferences(ctx, repos.Statuses, statuses, now)
	if err != nil {
		return sum, err
	}
	sum.Statuses = len(statusIDs)

	priorityIDs, err := seedReferences(ctx, repos.Priorities, priorities, now)
	if err != nil {
		return sum, err
	}
	sum.Priorities = len(priorityIDs)

	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		category := &entities.Category{
			ID:        uuid.NewString(),
			Name:      c.name,
			Color:     strPtr(c.color),
			Icon:      strPtr(c.icon),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.Categories.Create(ctx, category); err != nil {
			return sum, fmt.Errorf("seed category %q: %w", c.name, err)
		}
		categoryIDs[c.name] = category.ID
	}
	sum.Categories = len(categoryIDs)

	userIDs := make(map[string]string, len(users))
	for _, u := range users {
		user := &entities.User{
			ID:        uuid.NewString(),
			Name:      u.name,
			Email:     u.email,
			Avatar:    strPtr(u.avatar),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			return sum, fmt.Errorf("seed user %q: %w", u.name, err)
		}
		userIDs[u.name] = user.ID
	}
	sum.Users = len(userIDs)

	ownerID := userIDs[users[0].name]
	for _, ts := range tasks {
		created := mustDate(ts.createdAt)
		task := &entities.Task{
			ID:          uuid.NewString(),
			Title:       ts.title,
			Description: strPtr(ts.description),
			Image:       strPtr(ts.image),
			IsVital:     ts.vital,
			DueDate:     datePtr(ts.dueDate),
			CompletedAt: datePtr(ts.completedAt),
			StatusID:    statusIDs[ts.status],
			PriorityID:  priorityIDs[ts.priority],
			CategoryID:  strPtr(categoryIDs[ts.category]),
			OwnerID:     ownerID,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if ts.assignee != "" {
			task.AssigneeID = strPtr(userIDs[ts.assignee])
		}
		if err := repos.Tasks.Create(ctx, task); err != nil {
			return sum, fmt.Errorf("seed task %q: %w", ts.title, err)
		}
		sum.Tasks++
	}

	return sum, nil
}

func seedReferences(ctx context.Context, repo ports.ReferenceRepository, rows []refSeed, now time.Time) (map[string]string, error) {
	ids := make(map[string]string, len(rows))
	for i, r := range rows {
		ref := &entities.Reference{
			ID:        uuid.NewString(),
			Name:      r.name,
			Color:     strPtr(r.color),
			Order:     i + 1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, ref); err != nil {
			return nil, fmt.Errorf("seed %s %q: %w", repo.Kind(), r.name, err)
		}
		ids[r.name] = ref.ID
	}
	return ids, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(fmt.Sprintf("seed: bad date %q", s))
	}
	return t
}

func datePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := mustDate(s)
	return &t
}

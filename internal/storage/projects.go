package storage

import (
	"context"
	"strings"
	"time"

	"github.com/shram-daan/shramdaan/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func preloadDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Organizer").
		Preload("Rsvps", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Rsvps.User")
}

func toDetails(p models.Project) ProjectWithDetails {
	details := ProjectWithDetails{
		Project: p,
		Rsvps:   make([]RsvpWithUser, 0, len(p.Rsvps)),
	}

	if p.Organizer != nil {
		details.Organizer = *p.Organizer
	}

	for _, r := range p.Rsvps {
		entry := RsvpWithUser{Rsvp: r}
		if r.User != nil {
			entry.User = *r.User
		}
		details.Rsvps = append(details.Rsvps, entry)
	}

	details.Count.Rsvps = len(details.Rsvps)
	details.Project.Organizer = nil
	details.Project.Rsvps = nil

	return details
}

func (d *Database) ListProjects(ctx context.Context, filter ProjectFilter) ([]ProjectWithDetails, error) {
	q := d.conn(ctx).Model(&models.Project{}).Where("is_active = ?", true)

	if category := strings.TrimSpace(filter.Category); category != "" && models.Category(category) != models.CategoryAll {
		q = q.Where("category = ?", category)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := containsPattern(search)
		q = q.Where(`search_text LIKE ? ESCAPE '\'`, pattern)
	}

	if filter.OrganizerID != "" {
		q = q.Where("organizer_id = ?", filter.OrganizerID)
	}

	var projects []models.Project

	if err := preloadDetails(q).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, wrap("list projects", err)
	}

	result := make([]ProjectWithDetails, 0, len(projects))
	for _, p := range projects {
		result = append(result, toDetails(p))
	}

	return result, nil
}

func (d *Database) GetProjectDetails(ctx context.Context, id string) (*ProjectWithDetails, error) {
	var project models.Project

	if err := preloadDetails(d.conn(ctx)).First(&project, "id = ?", id).Error; err != nil {
		return nil, wrap("get project details", err)
	}

	details := toDetails(project)
	return &details, nil
}

func (d *Database) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project

	if err := d.conn(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, wrap("get project", err)
	}

	return &project, nil
}

// LockProject reads a project row for update. Only meaningful inside
// Transaction; SQLite serializes writers on its own and has no row locks.
func (d *Database) LockProject(ctx context.Context, id string) (*models.Project, error) {
	q := d.conn(ctx)

	if d.isPostgres() {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var project models.Project

	if err := q.First(&project, "id = ?", id).Error; err != nil {
		return nil, wrap("lock project", err)
	}

	return &project, nil
}

func (d *Database) CreateProject(ctx context.Context, project models.Project) (*models.Project, error) {
	project.DateTime = project.DateTime.UTC()
	project.SearchText = project.SearchKey()

	if err := d.conn(ctx).Omit(clause.Associations).Create(&project).Error; err != nil {
		return nil, wrap("create project", err)
	}

	return &project, nil
}

func (d *Database) UpdateProject(ctx context.Context, id string, fields map[string]interface{}) (*models.Project, error) {
	current, err := d.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{}, len(fields)+2)
	for column, value := range fields {
		if t, ok := value.(time.Time); ok {
			value = t.UTC()
		}
		updates[column] = value
	}

	next := *current
	if v, ok := fields["title"].(string); ok {
		next.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		next.Description = v
	}
	if v, ok := fields["location"].(string); ok {
		next.Location = v
	}
	updates["search_text"] = next.SearchKey()
	updates["updated_at"] = d.db.NowFunc()

	if err := d.conn(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, wrap("update project", err)
	}

	return d.GetProject(ctx, id)
}

func (d *Database) SoftDeleteProject(ctx context.Context, id string) error {
	err := d.conn(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": d.db.NowFunc()}).
		Error

	return wrap("soft delete project", err)
}

func (d *Database) ListUserProjects(ctx context.Context, userID string) ([]models.Project, error) {
	projects := []models.Project{}

	err := d.conn(ctx).
		Where("organizer_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&projects).Error

	if err != nil {
		return nil, wrap("list user projects", err)
	}

	return projects, nil
}

// ListUpcomingProjects returns active projects scheduled in [from, to) with
// their RSVPs loaded.
func (d *Database) ListUpcomingProjects(ctx context.Context, from, to time.Time) ([]models.Project, error) {
	var projects []models.Project

	err := d.conn(ctx).
		Preload("Rsvps").
		Where("is_active = ? AND date_time >= ? AND date_time < ?", true, from.UTC(), to.UTC()).
		Order("date_time ASC").
		Find(&projects).Error

	if err != nil {
		return nil, wrap("list upcoming projects", err)
	}

	return projects, nil
}

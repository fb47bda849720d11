// Package postimport seeds blog posts from a semicolon-delimited CSV dump,
// creating categories and tags on demand. Authors must already exist; rows
// pointing at unknown accounts are counted and skipped.
package postimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teris-io/shortid"
	"gorm.io/gorm"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
)

type Logger interface {
	Printf(format string, v ...any)
}

type Options struct {
	CSVPath string
	DryRun  bool
	Logger  Logger
}

type Result struct {
	Processed   int
	Inserted    int
	Missing     int
	ParseErrors int
}

type csvRow struct {
	Title           string
	Content         string
	Excerpt         string
	AuthorEmail     string
	Category        string
	Tags            []string
	IsPublic        bool
	Status          string
	PublicationDate *time.Time
}

type headerIndex struct {
	title       int
	content     int
	excerpt     int
	authorEmail int
	category    int
	tags        int
	isPublic    int
	status      int
	publication int
}

func ImportCSV(ctx context.Context, db *gorm.DB, opts Options) (Result, error) {
	if db == nil {
		return Result{}, errors.New("db is nil")
	}
	csvPath := strings.TrimSpace(opts.CSVPath)
	if csvPath == "" {
		return Result{}, errors.New("csv path is empty")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read csv header: %w", err)
	}
	idx, err := mapHeaders(headers)
	if err != nil {
		return Result{}, fmt.Errorf("invalid csv header: %w", err)
	}

	result := Result{}
	line := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			logger.Printf("line %d: read error: %v", line, err)
			result.ParseErrors++
			continue
		}
		row, err := parseRow(record, idx)
		if err != nil {
			logger.Printf("line %d: %v", line, err)
			result.ParseErrors++
			continue
		}
		result.Processed++

		author, err := findUserByEmail(ctx, db, row.AuthorEmail)
		if err != nil {
			logger.Printf("line %d: %v", line, err)
			result.ParseErrors++
			continue
		}
		if author == nil {
			result.Missing++
			logger.Printf("line %d: author not found for email=%q", line, row.AuthorEmail)
			continue
		}

		if opts.DryRun {
			result.Inserted++
			continue
		}
		if err := savePost(ctx, db, author, row); err != nil {
			logger.Printf("line %d: save post failed: %v", line, err)
			result.ParseErrors++
			continue
		}
		result.Inserted++
	}

	logger.Printf("done: processed=%d inserted=%d missing=%d parse_errors=%d", result.Processed, result.Inserted, result.Missing, result.ParseErrors)
	return result, nil
}

func mapHeaders(headers []string) (headerIndex, error) {
	idx := map[string]int{}
	for i, h := range headers {
		key := strings.TrimSpace(strings.ToLower(h))
		idx[key] = i
	}
	required := []string{"title", "content", "author_email", "status"}
	for _, key := range required {
		if _, ok := idx[key]; !ok {
			return headerIndex{}, fmt.Errorf("missing column %q", key)
		}
	}
	optional := func(key string) int {
		if value, ok := idx[key]; ok {
			return value
		}
		return -1
	}
	return headerIndex{
		title:       idx["title"],
		content:     idx["content"],
		excerpt:     optional("excerpt"),
		authorEmail: idx["author_email"],
		category:    optional("category"),
		tags:        optional("tags"),
		isPublic:    optional("is_public"),
		status:      idx["status"],
		publication: optional("publication_date"),
	}, nil
}

func parseRow(record []string, idx headerIndex) (*csvRow, error) {
	field := func(i int) string {
		if i >= 0 && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	title := field(idx.title)
	if title == "" {
		return nil, fmt.Errorf("missing title value")
	}
	email := field(idx.authorEmail)
	if email == "" {
		return nil, fmt.Errorf("missing author_email value")
	}

	status := strings.ToLower(field(idx.status))
	switch status {
	case models.StatusDraft, models.StatusPublished, models.StatusArchived:
	default:
		return nil, fmt.Errorf("invalid status %q", status)
	}

	isPublic := true
	if raw := field(idx.isPublic); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid is_public %q: %w", raw, err)
		}
		isPublic = parsed
	}

	var publication *time.Time
	if raw := field(idx.publication); raw != "" {
		parsed, err := parseTimestamp(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid publication_date %q: %w", raw, err)
		}
		publication = &parsed
	}

	var tags []string
	if raw := field(idx.tags); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				tags = append(tags, name)
			}
		}
	}

	return &csvRow{
		Title:           title,
		Content:         field(idx.content),
		Excerpt:         field(idx.excerpt),
		AuthorEmail:     email,
		Category:        field(idx.category),
		Tags:            tags,
		IsPublic:        isPublic,
		Status:          status,
		PublicationDate: publication,
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp layout")
}

func findUserByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func savePost(ctx context.Context, db *gorm.DB, author *models.User, row *csvRow) error {
	post := &models.BlogPost{
		Id:              uuid.New().String(),
		Title:           row.Title,
		Slug:            uniqueSlug(ctx, db, &models.BlogPost{}, row.Title),
		Content:         row.Content,
		Excerpt:         row.Excerpt,
		AuthorID:        author.Id,
		IsPublic:        row.IsPublic,
		Status:          row.Status,
		PublicationDate: row.PublicationDate,
	}

	// Published rows without an explicit publication date get one now, same
	// rule the blog service applies on publish.
	if post.Status == models.StatusPublished && post.PublicationDate == nil {
		now := time.Now().UTC()
		post.PublicationDate = &now
	}

	if row.Category != "" {
		category, err := findOrCreateCategory(ctx, db, row.Category)
		if err != nil {
			return err
		}
		post.CategoryID = &category.Id
	}

	for _, name := range row.Tags {
		tag, err := findOrCreateTag(ctx, db, name)
		if err != nil {
			return err
		}
		post.Tags = append(post.Tags, *tag)
	}

	return db.WithContext(ctx).Create(post).Error
}

func findOrCreateCategory(ctx context.Context, db *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	err := db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	category = models.Category{
		Id:   uuid.New().String(),
		Name: name,
		Slug: uniqueSlug(ctx, db, &models.Category{}, name),
	}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func findOrCreateTag(ctx context.Context, db *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	tag = models.Tag{
		Id:   uuid.New().String(),
		Name: name,
		Slug: Slugify(name),
	}
	if err := db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and strips everything that is not alphanumeric.
func Slugify(value string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(value), "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug appends a shortid suffix when the natural slug is already taken
// within the given model's table.
func uniqueSlug(ctx context.Context, db *gorm.DB, model interface{}, value string) string {
	slug := Slugify(value)
	var count int64
	db.WithContext(ctx).Model(model).Where("slug = ?", slug).Count(&count)
	if count == 0 {
		return slug
	}
	return slug + "-" + strings.ToLower(shortid.MustGenerate())
}

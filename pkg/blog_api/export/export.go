// Package export renders an ordered set of post snapshots into one of the
// three supported download formats. All renderers are pure: identical input
// and export timestamp yield byte-identical output.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
)

// csvTimeLayout is the spreadsheet-friendly timestamp form used in CSV cells.
const csvTimeLayout = "2006-01-02 15:04:05"

// Render dispatches on the closed format set and returns the payload together
// with its content type and file extension.
func Render(format string, posts []models.PostExport, exportedAt time.Time) (content string, contentType string, extension string, err error) {
	switch format {
	case models.FormatCSV:
		content, err = ExportPostsToCSV(posts)
		return content, "text/csv", "csv", err
	case models.FormatXML:
		content, err = ExportPostsToXML(posts, exportedAt)
		return content, "application/xml", "xml", err
	case models.FormatJSON:
		content, err = ExportPostsToJSON(posts, exportedAt)
		return content, "application/json", "json", err
	default:
		return "", "", "", fmt.Errorf("unsupported export format %q", format)
	}
}

type jsonExport struct {
	ExportDate string              `json:"export_date"`
	TotalPosts int                 `json:"total_posts"`
	Posts      []models.PostExport `json:"posts"`
}

// ExportPostsToJSON renders the set as a single indented JSON document.
func ExportPostsToJSON(posts []models.PostExport, exportedAt time.Time) (string, error) {
	doc := jsonExport{
		ExportDate: exportedAt.Format(time.RFC3339),
		TotalPosts: len(posts),
		Posts:      posts,
	}
	if doc.Posts == nil {
		doc.Posts = []models.PostExport{}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// csvHeader is the fixed 15-column header row.
var csvHeader = []string{
	"ID", "Title", "Content", "Excerpt", "Author Username", "Author Email",
	"Category", "Tags", "Is Public", "Status", "View Count", "Like Count",
	"Created At", "Updated At", "Publication Date",
}

// ExportPostsToCSV renders the set as CSV. Tags are comma-joined, missing
// category and publication date become empty cells.
func ExportPostsToCSV(posts []models.PostExport) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, post := range posts {
		names := make([]string, len(post.Tags))
		for i, tag := range post.Tags {
			names[i] = tag.Name
		}
		row := []string{
			post.Id,
			post.Title,
			post.Content,
			post.Excerpt,
			post.Author.Username,
			post.Author.Email,
			derefOrEmpty(post.Category.Name),
			strings.Join(names, ", "),
			strconv.FormatBool(post.IsPublic),
			post.Status,
			strconv.FormatUint(uint64(post.ViewCount), 10),
			strconv.FormatUint(uint64(post.LikeCount), 10),
			reformatTimestamp(post.CreatedAt),
			reformatTimestamp(post.UpdatedAt),
			reformatOptionalTimestamp(post.PublicationDate),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type xmlExport struct {
	XMLName    xml.Name  `xml:"blog_export"`
	ExportDate string    `xml:"export_date,attr"`
	TotalPosts int       `xml:"total_posts,attr"`
	Posts      []xmlPost `xml:"posts>post"`
}

type xmlPost struct {
	Id              string       `xml:"id,attr"`
	Title           string       `xml:"title"`
	Content         string       `xml:"content"`
	Excerpt         string       `xml:"excerpt"`
	IsPublic        bool         `xml:"is_public"`
	Status          string       `xml:"status"`
	ViewCount       uint         `xml:"view_count"`
	LikeCount       uint         `xml:"like_count"`
	CreatedAt       string       `xml:"created_at"`
	UpdatedAt       string       `xml:"updated_at"`
	PublicationDate string       `xml:"publication_date,omitempty"`
	Author          xmlAuthor    `xml:"author"`
	Category        *xmlCategory `xml:"category,omitempty"`
	Tags            []xmlTag     `xml:"tags>tag"`
}

type xmlAuthor struct {
	Username string `xml:"username"`
	Email    string `xml:"email"`
	FullName string `xml:"full_name"`
}

type xmlCategory struct {
	Name string `xml:"name"`
	Slug string `xml:"slug"`
}

type xmlTag struct {
	Name string `xml:"name"`
	Slug string `xml:"slug"`
}

// ExportPostsToXML renders the set as XML. The category element is omitted
// entirely for uncategorized posts, as is publication_date when unset.
func ExportPostsToXML(posts []models.PostExport, exportedAt time.Time) (string, error) {
	doc := xmlExport{
		ExportDate: exportedAt.Format(time.RFC3339),
		TotalPosts: len(posts),
		Posts:      make([]xmlPost, len(posts)),
	}
	for i, post := range posts {
		node := xmlPost{
			Id:              post.Id,
			Title:           post.Title,
			Content:         post.Content,
			Excerpt:         post.Excerpt,
			IsPublic:        post.IsPublic,
			Status:          post.Status,
			ViewCount:       post.ViewCount,
			LikeCount:       post.LikeCount,
			CreatedAt:       post.CreatedAt,
			UpdatedAt:       post.UpdatedAt,
			PublicationDate: derefOrEmpty(post.PublicationDate),
			Author: xmlAuthor{
				Username: post.Author.Username,
				Email:    post.Author.Email,
				FullName: post.Author.FullName,
			},
			Tags: make([]xmlTag, len(post.Tags)),
		}
		if post.Category.Name != nil {
			node.Category = &xmlCategory{
				Name: *post.Category.Name,
				Slug: derefOrEmpty(post.Category.Slug),
			}
		}
		for j, tag := range post.Tags {
			node.Tags[j] = xmlTag{Name: tag.Name, Slug: tag.Slug}
		}
		doc.Posts[i] = node
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}

func derefOrEmpty(ptr *string) string {
	if ptr != nil {
		return *ptr
	}
	return ""
}

// reformatTimestamp converts an RFC 3339 snapshot value to the CSV layout.
// Values that fail to parse pass through unchanged rather than aborting a
// whole export over one malformed row.
func reformatTimestamp(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format(csvTimeLayout)
}

func reformatOptionalTimestamp(value *string) string {
	if value == nil {
		return ""
	}
	return reformatTimestamp(*value)
}

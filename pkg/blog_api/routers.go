package blog_api

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/wI2L/fizz"
	"github.com/wI2L/fizz/openapi"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/handler"
	problem "github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/helpers/problem"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/middleware"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/repositories"
)

var (
	apiVersionHeader = fizz.Header(
		"API-Version",
		"The API version of the response",
		"",
	)

	hooksOnce sync.Once
)

// SetupTonicHooks installs the problem+json error translation and a render
// hook that leaves file-attachment responses alone. Safe to call repeatedly;
// NewRouter calls it, tests may too.
func SetupTonicHooks() {
	hooksOnce.Do(func() {
		tonic.SetErrorHook(func(c *gin.Context, err error) (int, interface{}) {
			var be tonic.BindError
			if errors.As(err, &be) || isValidationErr(err) {
				// BindError does not unwrap; pull the validator errors out
				// explicitly so the response can name the offending field.
				cause := err
				if verrs := be.ValidationErrors(); verrs != nil {
					cause = verrs
				}
				invalids := invalidParamsFromBinding(cause, models.HistoricalDownloadParams{})
				apiErr := problem.NewBadRequest("body", "Invalid request body", invalids...)
				c.Header("Content-Type", "application/problem+json")
				return apiErr.Status, apiErr
			}

			if apiErr, ok := err.(problem.APIError); ok {
				c.Header("Content-Type", "application/problem+json")
				return apiErr.Status, apiErr
			}

			internal := problem.NewInternalServerError(err.Error())
			c.Header("Content-Type", "application/problem+json")
			return internal.Status, internal
		})

		// Download handlers stream the attachment themselves and return no
		// payload; rendering "null" over an already-written body would
		// corrupt the file.
		tonic.SetRenderHook(func(c *gin.Context, statusCode int, payload interface{}) {
			if c.Writer.Written() {
				return
			}
			tonic.DefaultRenderHook(c, statusCode, payload)
		}, "application/json")
	})
}

// NewRouter wires the download endpoints and the OpenAPI document.
func NewRouter(apiVersion string, downloads *handler.DownloadsAPIController, users repositories.UserRepository) *fizz.Fizz {
	SetupTonicHooks()

	g := gin.Default()
	g.Use(APIVersionMiddleware(apiVersion))
	f := fizz.NewFromEngine(g)

	f.Generator().API().Components.Headers["API-Version"] = &openapi.HeaderOrRef{
		Header: &openapi.Header{
			Description: "The API version of the response",
			Schema: &openapi.SchemaOrRef{
				Schema: &openapi.Schema{
					Type: "string",
				},
			},
		},
	}

	info := &openapi.Info{
		Title:       "Blog API v1",
		Description: "Blogging platform backend with bulk export and download tracking",
		Version:     apiVersion,
	}

	root := f.Group("/v1", "Blog API v1", "Blog API V1 routes")

	dl := root.Group("/downloads", "Downloads", "Bulk export endpoints", middleware.RequireUser(users))
	dl.POST("/historical-posts",
		[]fizz.OperationOption{
			fizz.Summary("Export all visible posts as a file download"),
			apiVersionHeader,
		},
		tonic.Handler(downloads.DownloadHistoricalPosts, 200),
	)

	dl.POST("/my-posts",
		[]fizz.OperationOption{
			fizz.Summary("Export your own posts as a file download"),
			apiVersionHeader,
		},
		tonic.Handler(downloads.DownloadMyPosts, 200),
	)

	dl.GET("/usage-stats",
		[]fizz.OperationOption{
			fizz.Summary("Download history with usage statistics"),
			apiVersionHeader,
		},
		tonic.Handler(downloads.GetUsageStats, 200),
	)

	f.GET("/v1/openapi.json", []fizz.OperationOption{}, f.OpenAPI(info, "json"))

	return f
}

func invalidParamsFromBinding(err error, sample any) []problem.InvalidParam {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []problem.InvalidParam{{Name: "body", Reason: err.Error()}}
	}

	t := reflect.TypeOf(sample)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	out := make([]problem.InvalidParam, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		// StructField -> json tag
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
				name = strings.Split(tag, ",")[0]
			}
		}
		out = append(out, problem.InvalidParam{
			Name:   name,
			Reason: humanReason(fe),
		})
	}
	return out
}

func humanReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "datetime":
		return "must be a date in the form YYYY-MM-DD"
	default:
		return fe.Error()
	}
}

func isValidationErr(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

type apiVersionWriter struct {
	gin.ResponseWriter
	version string
}

func (w *apiVersionWriter) WriteHeader(code int) {
	if code >= 200 && code < 300 {
		w.Header().Set("API-Version", w.version)
	}
	w.ResponseWriter.WriteHeader(code)
}

func APIVersionMiddleware(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &apiVersionWriter{c.Writer, version}
		c.Next()
	}
}

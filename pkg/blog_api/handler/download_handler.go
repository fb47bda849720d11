package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	util "github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/helpers/util"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/middleware"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/services"
)

// DownloadsAPIController binds HTTP requests to the DownloadsAPIService
type DownloadsAPIController struct {
	Service *services.DownloadsAPIService
}

// NewDownloadsAPIController creates a new controller
func NewDownloadsAPIController(s *services.DownloadsAPIService) *DownloadsAPIController {
	return &DownloadsAPIController{Service: s}
}

// DownloadHistoricalPosts handles POST /downloads/historical-posts
func (c *DownloadsAPIController) DownloadHistoricalPosts(ctx *gin.Context, params *models.HistoricalDownloadParams) error {
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		return err
	}
	file, err := c.Service.DownloadHistoricalPosts(ctx.Request.Context(), user, params, util.RequestMeta(ctx))
	if err != nil {
		return err
	}
	serveAttachment(ctx, file)
	return nil
}

// DownloadMyPosts handles POST /downloads/my-posts
func (c *DownloadsAPIController) DownloadMyPosts(ctx *gin.Context, params *models.MyPostsDownloadParams) error {
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		return err
	}
	file, err := c.Service.DownloadMyPosts(ctx.Request.Context(), user, params, util.RequestMeta(ctx))
	if err != nil {
		return err
	}
	serveAttachment(ctx, file)
	return nil
}

// GetUsageStats handles GET /downloads/usage-stats
func (c *DownloadsAPIController) GetUsageStats(ctx *gin.Context, params *models.UsageStatsParams) (*models.DownloadUsageResponse, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = 10
	}
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	resp, pagination, err := c.Service.GetUsageStats(ctx.Request.Context(), user, params.Page, params.PerPage)
	if err != nil {
		return nil, err
	}
	util.SetPaginationHeaders(ctx.Request, ctx.Header, pagination)
	return resp, nil
}

func serveAttachment(ctx *gin.Context, file *models.ExportFile) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	ctx.Header("Content-Length", fmt.Sprintf("%d", len(file.Content)))
	ctx.Data(http.StatusOK, file.ContentType, file.Content)
}

package controller

import (
	"log/slog"
	"logic-agent-backend/dao"
	"logic-agent-backend/model"
	"logic-agent-backend/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetInsights(c *gin.Context) {
	email := c.GetString("email")
	category := model.InsightCategory(c.Query("type"))
	if category != "" && !model.ValidInsightCategory(category) {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	insights, err := dao.GetInsightsByEmail(email, category)
	if err != nil {
		slog.Error(ErrGetInsights.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetInsights.Error(),
		})
		return
	}

	var resp response.GetInsightsResponse
	for _, i := range insights {
		resp.Insights = append(resp.Insights, response.InsightResponse{
			ID:          i.ID,
			CreatedAt:   i.CreatedAt,
			Title:       i.Title,
			Description: i.Desc,
			Content:     i.Content,
			Emoji:       i.Emoji,
			Type:        string(i.Category),
		})
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

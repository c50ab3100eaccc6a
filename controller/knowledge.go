package controller

import (
	"log/slog"
	"logic-agent-backend/response"
	"logic-agent-backend/service/knowledge"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetKnowledgeChunks(c *gin.Context) {
	email := c.GetString("email")
	chunks, err := knowledge.StoreInstance.List(c.Request.Context(), email)
	if err != nil {
		slog.Error(ErrGetKnowledgeChunks.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetKnowledgeChunks.Error(),
		})
		return
	}

	var resp response.GetKnowledgeChunksResponse
	for _, chunk := range chunks {
		resp.Chunks = append(resp.Chunks, response.KnowledgeChunkResponse{
			ID:    chunk.ID,
			Title: chunk.Title,
			Body:  chunk.Body,
		})
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

func DeleteKnowledgeChunk(c *gin.Context) {
	email := c.GetString("email")
	chunkID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := knowledge.StoreInstance.Delete(c.Request.Context(), email, chunkID); err != nil {
		slog.Error(ErrDeleteKnowledgeChunk.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteKnowledgeChunk.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

package http

import (
	"context"
	"net/http"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/gin-gonic/gin"
)

// Answerer answers a single question. The returned answer is never nil.
type Answerer interface {
	Answer(ctx context.Context, question string) *domain.Answer
}

type Handler struct {
	answerer Answerer
}

func New(a Answerer) *Handler {
	return &Handler{answerer: a}
}

// Register mounts the page routes. The engine must have the page templates
// loaded.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Index)
	r.GET("/ask", h.Ask)
	r.POST("/answer", h.Answer)
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", PageData{Title: "HR Copilot"})
}

func (h *Handler) Ask(c *gin.Context) {
	c.HTML(http.StatusOK, "ask.html", PageData{Title: "Ask a question"})
}

// Answer always renders 200; failures are reported inside the page.
func (h *Handler) Answer(c *gin.Context) {
	question := c.PostForm("question")

	ans := h.answerer.Answer(c.Request.Context(), question)

	c.HTML(http.StatusOK, "answer.html", newAnswerPage(ans))
}

func newAnswerPage(ans *domain.Answer) AnswerPage {
	page := AnswerPage{
		PageData: PageData{Title: "Answer"},
		Question: ans.Question,
		Answer:   ans.Text,
		Error:    ans.ErrorMessage(),
	}
	for _, r := range ans.Sources {
		title := r.Chunk.Title
		if title == "" {
			title = r.Chunk.Source
		}
		page.Sources = append(page.Sources, SourceView{ID: r.Chunk.ID, Title: title, Score: r.Score})
	}
	return page
}

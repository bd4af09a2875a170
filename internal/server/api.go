package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/paginate"
	"github.com/alexanderramin/cmscontent/internal/repository"
	"github.com/alexanderramin/cmscontent/internal/service"
)

// maxCommentBytes caps the body of a comment POST.
const maxCommentBytes = 64 << 10

// API serves content as JSON under /api/.
type API struct {
	Menu       service.MenuService
	Sections   service.SectionService
	Categories service.CategoryService
	Articles   service.ArticleService
	Comments   service.CommentService
	RootURL    string
	Logger     *slog.Logger
}

// Handler returns the routed API. Mount it on "/api/".
func (a *API) Handler() http.Handler {
	if a.Logger == nil {
		a.Logger = slog.Default()
	}
	a.RootURL = domain.NormalizeRootURL(a.RootURL)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/index", a.index)
	mux.HandleFunc("GET /api/menu", a.menuTree)
	mux.HandleFunc("GET /api/menu/{id}", a.menuEntry)
	mux.HandleFunc("GET /api/sections", a.sectionList)
	mux.HandleFunc("GET /api/sections/{slug}", a.sectionDetail)
	mux.HandleFunc("GET /api/categories/{slug}", a.categoryDetail)
	mux.HandleFunc("GET /api/articles/{year}/{month}/{day}/{slug}", a.articleDetail)
	mux.HandleFunc("GET /api/tags", a.tagList)
	mux.HandleFunc("GET /api/tags/{tag}", a.articlesByTag)
	mux.HandleFunc("GET /api/articles/{slug}/comments", a.commentList)
	mux.HandleFunc("POST /api/articles/{slug}/comments", a.commentPost)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return mux
}

func (a *API) index(w http.ResponseWriter, r *http.Request) {
	articles, err := a.Articles.Index(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": a.articleList(articles)})
}

func (a *API) menuTree(w http.ResponseWriter, r *http.Request) {
	tree, err := a.Menu.Tree(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"menu": toMenuJSON(tree)})
}

func (a *API) menuEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "menu id must be a positive integer")
		return
	}
	node, err := a.Menu.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	entry, err := a.Menu.ResolveEntry(r.Context(), node)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menuEntryJSON{
		ID:       node.ID,
		ParentID: node.ParentID,
		Kind:     string(node.Kind),
		Label:    entry.Label,
		URL:      entry.URL,
		Entry:    entry.String(),
	})
}

func (a *API) sectionList(w http.ResponseWriter, r *http.Request) {
	sections, err := a.Sections.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]sectionJSON, 0, len(sections))
	for _, s := range sections {
		out = append(out, a.toSectionJSON(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": out})
}

func (a *API) sectionDetail(w http.ResponseWriter, r *http.Request) {
	d, err := a.Sections.Detail(r.Context(), r.PathValue("slug"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	cats := make([]categoryJSON, 0, len(d.Categories))
	for _, c := range d.Categories {
		cats = append(cats, a.toCategoryJSON(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"section":    a.toSectionJSON(d.Section),
		"categories": cats,
	})
}

func (a *API) categoryDetail(w http.ResponseWriter, r *http.Request) {
	page := paginate.ParsePage(r.URL.Query().Get("page"))
	d, err := a.Categories.Detail(r.Context(), r.PathValue("slug"), page)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": a.toCategoryJSON(d.Category),
		"section":  a.toSectionJSON(d.Section),
		"articles": a.articleList(d.Articles),
		"page":     toPageJSON(d.Page),
	})
}

// articleDetail records a view. The date in the path must match the
// article's creation date.
func (a *API) articleDetail(w http.ResponseWriter, r *http.Request) {
	day, err := pathDate(r.PathValue("year"), r.PathValue("month"), r.PathValue("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slug := r.PathValue("slug")
	art, err := a.Articles.Get(r.Context(), slug)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if art.CreatedAt.Format(time.DateOnly) != day {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}

	d, err := a.Articles.Detail(r.Context(), slug)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	body := map[string]any{
		"article":  a.toArticleJSON(d.Article, true),
		"category": a.toCategoryJSON(d.Category),
		"section":  a.toSectionJSON(d.Section),
	}
	if d.Previous != nil {
		body["previous"] = a.toArticleJSON(d.Previous, false)
	}
	if d.Next != nil {
		body["next"] = a.toArticleJSON(d.Next, false)
	}
	writeJSON(w, http.StatusOK, body)
}

func pathDate(year, month, day string) (string, error) {
	t, err := time.Parse("2006/1/2", year+"/"+month+"/"+day)
	if err != nil {
		return "", errors.New("article date must be YYYY/MM/DD")
	}
	return t.Format(time.DateOnly), nil
}

func (a *API) tagList(w http.ResponseWriter, r *http.Request) {
	tags, err := a.Articles.Tags(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

func (a *API) articlesByTag(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	articles, err := a.Articles.ListByTag(r.Context(), tag)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tag": tag, "articles": a.articleList(articles)})
}

func (a *API) commentList(w http.ResponseWriter, r *http.Request) {
	comments, err := a.Comments.ListPublic(r.Context(), r.PathValue("slug"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]commentJSON, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentJSON(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": out})
}

type commentRequestJSON struct {
	UserName string `json:"user_name"`
	Body     string `json:"body"`
}

func (a *API) commentPost(w http.ResponseWriter, r *http.Request) {
	var req commentRequestJSON
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommentBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment payload")
		return
	}
	c, err := a.Comments.Post(r.Context(), service.CommentRequest{
		ArticleSlug: r.PathValue("slug"),
		UserName:    req.UserName,
		Body:        req.Body,
		UserIP:      clientIP(r),
		UserAgent:   r.UserAgent(),
		Referrer:    r.Referer(),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentJSON(c))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// fail maps a service error to a status code and logs the unexpected ones.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidKind), errors.Is(err, domain.ErrOwnerMismatch):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.Logger.ErrorContext(r.Context(), "api request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

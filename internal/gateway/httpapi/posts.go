package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"github.com/dmitrijs2005/postpromo/internal/rpc"
	"github.com/go-chi/chi/v5"
)

type createPostRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=255"`
	Description string   `json:"description" validate:"required,notblank"`
	IsPrivate   bool     `json:"is_private"`
	Tags        []string `json:"tags"`
}

// updatePostRequest keeps presence: a missing field stays nil.
type updatePostRequest struct {
	Title       *string   `json:"title" validate:"omitempty,max=255"`
	Description *string   `json:"description"`
	IsPrivate   *bool     `json:"is_private"`
	Tags        *[]string `json:"tags"`
}

type postResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CreatorID   string   `json:"creator_id"`
	IsPrivate   bool     `json:"is_private"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type listPostsResponse struct {
	Posts []postResponse `json:"posts"`
	listMeta
}

func toPost(p *rpc.Post) postResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return postResponse{
		ID:          p.Id,
		Title:       p.Title,
		Description: p.Description,
		CreatorID:   p.CreatorId,
		IsPrivate:   p.IsPrivate,
		Tags:        tags,
		CreatedAt:   timestamp(p.CreatedAt),
		UpdatedAt:   timestamp(p.UpdatedAt),
	}
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	p, err := h.posts.CreatePost(r.Context(), &rpc.CreatePostRequest{
		Title:       req.Title,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		Tags:        req.Tags,
	})
	if err != nil {
		h.writeRPCError(w, r, err)
		return
	}
	h.logger.Info(r.Context(), "post created", "post_id", p.Id, "creator_id", caller(r))
	httpx.WriteJSON(w, http.StatusOK, toPost(p))
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.posts.GetPost(r.Context(), &rpc.GetPostRequest{Id: chi.URLParam(r, "id")})
	if err != nil {
		h.writeRPCError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPost(p))
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	var req updatePostRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	p, err := h.posts.UpdatePost(r.Context(), &rpc.UpdatePostRequest{
		Id:          chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		Tags:        req.Tags,
	})
	if err != nil {
		h.writeRPCError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPost(p))
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	if _, err := h.posts.DeletePost(r.Context(), &rpc.DeletePostRequest{Id: chi.URLParam(r, "id")}); err != nil {
		h.writeRPCError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Post deleted successfully"})
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pageParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.posts.ListPosts(r.Context(), &rpc.ListPostsRequest{Page: page, PerPage: perPage})
	if err != nil {
		h.writeRPCError(w, r, err)
		return
	}

	out := listPostsResponse{
		Posts:    make([]postResponse, 0, len(resp.Posts)),
		listMeta: listMeta{Total: resp.Total, Page: page, PerPage: perPage},
	}
	for _, p := range resp.Posts {
		out.Posts = append(out.Posts, toPost(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"github.com/dmitrijs2005/postpromo/internal/rpc"
	"github.com/go-chi/chi/v5"
)

type createPromocodeRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description string  `json:"description"`
	Discount    float64 `json:"discount" validate:"gte=0"`
	Code        string  `json:"code" validate:"required,notblank,max=50"`
}

type updatePromocodeRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	Discount    *float64 `json:"discount" validate:"omitempty,gte=0"`
	Code        *string  `json:"code" validate:"omitempty,max=50"`
}

type promocodeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatorID   string  `json:"creator_id"`
	Discount    float64 `json:"discount"`
	Code        string  `json:"code"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type listPromocodesResponse struct {
	Promocodes []promocodeResponse `json:"promocodes"`
	listMeta
}

func toPromocode(p *rpc.Promocode) promocodeResponse {
	return promocodeResponse{
		ID:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		CreatorID:   p.CreatorId,
		Discount:    p.Discount,
		Code:        p.Code,
		CreatedAt:   timestamp(p.CreatedAt),
		UpdatedAt:   timestamp(p.UpdatedAt),
	}
}

func (h *Handler) createPromocode(w http.ResponseWriter, r *http.Request) {
	var req createPromocodeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	p, err := h.promocodes.CreatePromocode(r.Context(), &rpc.CreatePromocodeRequest{
		Name:        req.Name,
		Description: req.Description,
		Discount:    req.Discount,
		Code:        req.Code,
	})
	if err != nil {
		h.writeRPCError(w, r, err)
		return
	}
	h.logger.Info(r.Context(), "promocode created", "promocode_id", p.Id, "creator_id", caller(r))
	httpx.WriteJSON(w, http.StatusOK, toPromocode(p))
}

func (h *Handler) getPromocode(w http.ResponseWriter, r *http.Request) {
	p, err := h.promocodes.GetPromocode(r.Context(), &rpc.GetPromocodeRequest{Id: chi.URLParam(r, "id")})
	if err != nil {
		h.writeRPCError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPromocode(p))
}

func (h *Handler) updatePromocode(w http.ResponseWriter, r *http.Request) {
	var req updatePromocodeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	p, err := h.promocodes.UpdatePromocode(r.Context(), &rpc.UpdatePromocodeRequest{
		Id:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		Discount:    req.Discount,
		Code:        req.Code,
	})
	if err != nil {
		h.writeRPCError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPromocode(p))
}

func (h *Handler) deletePromocode(w http.ResponseWriter, r *http.Request) {
	if _, err := h.promocodes.DeletePromocode(r.Context(), &rpc.DeletePromocodeRequest{Id: chi.URLParam(r, "id")}); err != nil {
		h.writeRPCError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Promocode deleted successfully"})
}

func (h *Handler) listPromocodes(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pageParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.promocodes.ListPromocodes(r.Context(), &rpc.ListPromocodesRequest{Page: page, PerPage: perPage})
	if err != nil {
		h.writeRPCError(w, r, err)
		return
	}

	out := listPromocodesResponse{
		Promocodes: make([]promocodeResponse, 0, len(resp.Promocodes)),
		listMeta:   listMeta{Total: resp.Total, Page: page, PerPage: perPage},
	}
	for _, p := range resp.Promocodes {
		out.Promocodes = append(out.Promocodes, toPromocode(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

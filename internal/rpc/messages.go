package rpc

import "google.golang.org/protobuf/types/known/timestamppb"

// Empty is returned by calls that carry no payload back.
type Empty struct{}

type Post struct {
	Id          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	CreatorId   string                 `json:"creator_id"`
	IsPrivate   bool                   `json:"is_private"`
	Tags        []string               `json:"tags"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at"`
	UpdatedAt   *timestamppb.Timestamp `json:"updated_at"`
}

type CreatePostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	IsPrivate   bool     `json:"is_private"`
	Tags        []string `json:"tags"`
}

type GetPostRequest struct {
	Id string `json:"id"`
}

// UpdatePostRequest carries only the fields to change; a nil field is
// left as stored.
type UpdatePostRequest struct {
	Id          string    `json:"id"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsPrivate   *bool     `json:"is_private,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

type DeletePostRequest struct {
	Id string `json:"id"`
}

type ListPostsRequest struct {
	Page    int32 `json:"page"`
	PerPage int32 `json:"per_page"`
}

type ListPostsResponse struct {
	Posts []*Post `json:"posts"`
	Total int64   `json:"total"`
}

type Promocode struct {
	Id          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	CreatorId   string                 `json:"creator_id"`
	Discount    float64                `json:"discount"`
	Code        string                 `json:"code"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at"`
	UpdatedAt   *timestamppb.Timestamp `json:"updated_at"`
}

type CreatePromocodeRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Discount    float64 `json:"discount"`
	Code        string  `json:"code"`
}

type GetPromocodeRequest struct {
	Id string `json:"id"`
}

type UpdatePromocodeRequest struct {
	Id          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Discount    *float64 `json:"discount,omitempty"`
	Code        *string  `json:"code,omitempty"`
}

type DeletePromocodeRequest struct {
	Id string `json:"id"`
}

type ListPromocodesRequest struct {
	Page    int32 `json:"page"`
	PerPage int32 `json:"per_page"`
}

type ListPromocodesResponse struct {
	Promocodes []*Promocode `json:"promocodes"`
	Total      int64        `json:"total"`
}

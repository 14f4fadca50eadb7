package rpc

import (
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	bytesT   = protowire.BytesType
	varintT  = protowire.VarintType
	fixed64T = protowire.Fixed64Type
)

func (*Empty) marshalWire() ([]byte, error) { return nil, nil }

func (*Empty) unmarshalWire(b []byte) error {
	return walk(b, nil, func(protowire.Number, value) error { return nil })
}

var postSchema = schema{1: bytesT, 2: bytesT, 3: bytesT, 4: bytesT, 5: varintT, 6: bytesT, 7: bytesT, 8: bytesT}

func (m *Post) marshalWire() ([]byte, error) {
	e := &encoder{}
	e.string(1, m.Id)
	e.string(2, m.Title)
	e.string(3, m.Description)
	e.string(4, m.CreatorId)
	e.bool(5, m.IsPrivate)
	e.strings(6, m.Tags)
	if err := e.timestamp(7, m.CreatedAt); err != nil {
		return nil, err
	}
	if err := e.timestamp(8, m.UpdatedAt); err != nil {
		return nil, err
	}
	return e.b, nil
}

func (m *Post) unmarshalWire(b []byte) error {
	*m = Post{}
	return walk(b, postSchema, func(num protowire.Number, v value) (err error) {
		switch num {
		case 1:
			m.Id = v.string()
		case 2:
			m.Title = v.string()
		case 3:
			m.Description = v.string()
		case 4:
			m.CreatorId = v.string()
		case 5:
			m.IsPrivate = v.bool()
		case 6:
			m.Tags = append(m.Tags, v.string())
		case 7:
			m.CreatedAt, err = v.timestamp()
		case 8:
			m.UpdatedAt, err = v.timestamp()
		}
		return err
	})
}

var createPostSchema = schema{1: bytesT, 2: bytesT, 3: varintT, 4: bytesT}

func (m *CreatePostRequest) marshalWire() ([]byte, error) {
	e := &encoder{}
	e.string(1, m.Title)
	e.string(2, m.Description)
	e.bool(3, m.IsPrivate)
	e.strings(4, m.Tags)
	return e.b, nil
}

func (m *CreatePostRequest) unmarshalWire(b []byte) error {
	*m = CreatePostRequest{}
	return walk(b, createPostSchema, func(num protowire.Number, v value) error {
		switch num {
		case 1:
			m.Title = v.string()
		case 2:
			m.Description = v.string()
		case 3:
			m.IsPrivate = v.bool()
		case 4:
			m.Tags = append(m.Tags, v.string())
		}
		return nil
	})
}

var idSchema = schema{1: bytesT}

func marshalID(id string) ([]byte, error) {
	e := &encoder{}
	e.string(1, id)
	return e.b, nil
}

func unmarshalID(b []byte, id *string) error {
	*id = ""
	return walk(b, idSchema, func(_ protowire.Number, v value) error {
		*id = v.string()
		return nil
	})
}

func (m *GetPostRequest) marshalWire() ([]byte, error) { return marshalID(m.Id) }
func (m *GetPostRequest) unmarshalWire(b []byte) error { return unmarshalID(b, &m.Id) }
func (m *DeletePostRequest) marshalWire() ([]byte, error) { return marshalID(m.Id) }
func (m *DeletePostRequest) unmarshalWire(b []byte) error { return unmarshalID(b, &m.Id) }
func (m *GetPromocodeRequest) marshalWire() ([]byte, error) { return marshalID(m.Id) }
func (m *GetPromocodeRequest) unmarshalWire(b []byte) error { return unmarshalID(b, &m.Id) }
func (m *DeletePromocodeRequest) marshalWire() ([]byte, error) { return marshalID(m.Id) }
func (m *DeletePromocodeRequest) unmarshalWire(b []byte) error { return unmarshalID(b, &m.Id) }

// stringList is the StringList wrapper that gives an update's tags presence.
type stringList []string

var stringListSchema = schema{1: bytesT}

func (l *stringList) marshalWire() ([]byte, error) {
	e := &encoder{}
	e.strings(1, *l)
	return e.b, nil
}

func (l *stringList) unmarshalWire(b []byte) error {
	*l = stringList{}
	return walk(b, stringListSchema, func(_ protowire.Number, v value) error {
		*l = append(*l, v.string())
		return nil
	})
}

var updatePostSchema = schema{1: bytesT, 2: bytesT, 3: bytesT, 4: varintT, 5: bytesT}

func (m *UpdatePostRequest) marshalWire() ([]byte, error) {
	e := &encoder{}
	e.string(1, m.Id)
	e.optString(2, m.Title)
	e.optString(3, m.Description)
	e.optBool(4, m.IsPrivate)
	if m.Tags != nil {
		tags := stringList(*m.Tags)
		if err := e.message(5, &tags); err != nil {
			return nil, err
		}
	}
	return e.b, nil
}

func (m *UpdatePostRequest) unmarshalWire(b []byte) error {
	*m = UpdatePostRequest{}
	return walk(b, updatePostSchema, func(num protowire.Number, v value) error {
		switch num {
		case 1:
			m.Id = v.string()
		case 2:
			s := v.string()
			m.Title = &s
		case 3:
			s := v.string()
			m.Description = &s
		case 4:
			p := v.bool()
			m.IsPrivate = &p
		case 5:
			var tags stringList
			if err := tags.unmarshalWire(v.b); err != nil {
				return err
			}
			ss := []string(tags)
			m.Tags = &ss
		}
		return nil
	})
}

var pageSchema = schema{1: varintT, 2: varintT}

func marshalPage(number, perPage int32) ([]byte, error) {
	e := &encoder{}
	e.int32(1, number)
	e.int32(2, perPage)
	return e.b, nil
}

func unmarshalPage(b []byte, number, perPage *int32) error {
	*number, *perPage = 0, 0
	return walk(b, pageSchema, func(num protowire.Number, v value) error {
		if num == 1 {
			*number = v.int32()
		} else {
			*perPage = v.int32()
		}
		return nil
	})
}

func (m *ListPostsRequest) marshalWire() ([]byte, error) { return marshalPage(m.Page, m.PerPage) }
func (m *ListPostsRequest) unmarshalWire(b []byte) error { return unmarshalPage(b, &m.Page, &m.PerPage) }

func (m *ListPromocodesRequest) marshalWire() ([]byte, error) {
	return marshalPage(m.Page, m.PerPage)
}

func (m *ListPromocodesRequest) unmarshalWire(b []byte) error {
	return unmarshalPage(b, &m.Page, &m.PerPage)
}

var listSchema = schema{1: bytesT, 2: varintT}

func (m *ListPostsResponse) marshalWire() ([]byte, error) {
	e := &encoder{}
	for _, p := range m.Posts {
		if err := e.message(1, p); err != nil {
			return nil, err
		}
	}
	e.int64(2, m.Total)
	return e.b, nil
}

func (m *ListPostsResponse) unmarshalWire(b []byte) error {
	*m = ListPostsResponse{}
	return walk(b, listSchema, func(num protowire.Number, v value) error {
		if num == 2 {
			m.Total = v.int64()
			return nil
		}
		p := &Post{}
		if err := p.unmarshalWire(v.b); err != nil {
			return err
		}
		m.Posts = append(m.Posts, p)
		return nil
	})
}

var promocodeSchema = schema{1: bytesT, 2: bytesT, 3: bytesT, 4: bytesT, 5: fixed64T, 6: bytesT, 7: bytesT, 8: bytesT}

func (m *Promocode) marshalWire() ([]byte, error) {
	e := &encoder{}
	e.string(1, m.Id)
	e.string(2, m.Name)
	e.string(3, m.Description)
	e.string(4, m.CreatorId)
	e.double(5, m.Discount)
	e.string(6, m.Code)
	if err := e.timestamp(7, m.CreatedAt); err != nil {
		return nil, err
	}
	if err := e.timestamp(8, m.UpdatedAt); err != nil {
		return nil, err
	}
	return e.b, nil
}

func (m *Promocode) unmarshalWire(b []byte) error {
	*m = Promocode{}
	return walk(b, promocodeSchema, func(num protowire.Number, v value) (err error) {
		switch num {
		case 1:
			m.Id = v.string()
		case 2:
			m.Name = v.string()
		case 3:
			m.Description = v.string()
		case 4:
			m.CreatorId = v.string()
		case 5:
			m.Discount = v.double()
		case 6:
			m.Code = v.string()
		case 7:
			m.CreatedAt, err = v.timestamp()
		case 8:
			m.UpdatedAt, err = v.timestamp()
		}
		return err
	})
}

var createPromocodeSchema = schema{1: bytesT, 2: bytesT, 3: fixed64T, 4: bytesT}

func (m *CreatePromocodeRequest) marshalWire() ([]byte, error) {
	e := &encoder{}
	e.string(1, m.Name)
	e.string(2, m.Description)
	e.double(3, m.Discount)
	e.string(4, m.Code)
	return e.b, nil
}

func (m *CreatePromocodeRequest) unmarshalWire(b []byte) error {
	*m = CreatePromocodeRequest{}
	return walk(b, createPromocodeSchema, func(num protowire.Number, v value) error {
		switch num {
		case 1:
			m.Name = v.string()
		case 2:
			m.Description = v.string()
		case 3:
			m.Discount = v.double()
		case 4:
			m.Code = v.string()
		}
		return nil
	})
}

var updatePromocodeSchema = schema{1: bytesT, 2: bytesT, 3: bytesT, 4: fixed64T, 5: bytesT}

func (m *UpdatePromocodeRequest) marshalWire() ([]byte, error) {
	e := &encoder{}
	e.string(1, m.Id)
	e.optString(2, m.Name)
	e.optString(3, m.Description)
	e.optDouble(4, m.Discount)
	e.optString(5, m.Code)
	return e.b, nil
}

func (m *UpdatePromocodeRequest) unmarshalWire(b []byte) error {
	*m = UpdatePromocodeRequest{}
	return walk(b, updatePromocodeSchema, func(num protowire.Number, v value) error {
		switch num {
		case 1:
			m.Id = v.string()
		case 4:
			d := v.double()
			m.Discount = &d
		default:
			s := v.string()
			switch num {
			case 2:
				m.Name = &s
			case 3:
				m.Description = &s
			case 5:
				m.Code = &s
			}
		}
		return nil
	})
}

func (m *ListPromocodesResponse) marshalWire() ([]byte, error) {
	e := &encoder{}
	for _, p := range m.Promocodes {
		if err := e.message(1, p); err != nil {
			return nil, err
		}
	}
	e.int64(2, m.Total)
	return e.b, nil
}

func (m *ListPromocodesResponse) unmarshalWire(b []byte) error {
	*m = ListPromocodesResponse{}
	return walk(b, listSchema, func(num protowire.Number, v value) error {
		if num == 2 {
			m.Total = v.int64()
			return nil
		}
		p := &Promocode{}
		if err := p.unmarshalWire(v.b); err != nil {
			return err
		}
		m.Promocodes = append(m.Promocodes, p)
		return nil
	})
}

package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types stored in the database. Written by
// hand in the style of musgen output so the storage layer depends only on
// the <Type>MUS values. Timestamps are encoded as Unix microseconds.
var (
	IDMUS        = idMUS{}
	DocumentMUS  = documentMUS{}
	ChunkMUS     = chunkMUS{}
	EmbeddingMUS = embeddingMUS{}
)

var (
	_ mus.Serializer[ID]        = IDMUS
	_ mus.Serializer[Document]  = DocumentMUS
	_ mus.Serializer[Chunk]     = ChunkMUS
	_ mus.Serializer[Embedding] = EmbeddingMUS
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type strMUS struct{}

func (strMUS) Marshal(v string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	n += copy(bs[n:], v)
	return
}

func (strMUS) Unmarshal(bs []byte) (v string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || len(bs)-n < length {
		err = ErrTruncatedRecord
		return
	}
	v = string(bs[n : n+length])
	n += length
	return
}

func (strMUS) Size(v string) (size int) {
	return varint.Int.Size(len(v)) + len(v)
}

func (s strMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type bytesMUS struct{}

func (bytesMUS) Marshal(v []byte, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	n += copy(bs[n:], v)
	return
}

func (bytesMUS) Unmarshal(bs []byte) (v []byte, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || len(bs)-n < length {
		err = ErrTruncatedRecord
		return
	}
	v = make([]byte, length)
	copy(v, bs[n:n+length])
	n += length
	return
}

func (bytesMUS) Size(v []byte) (size int) {
	return varint.Int.Size(len(v)) + len(v)
}

func (b bytesMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = b.Unmarshal(bs)
	return
}

type timeMUS struct{}

func (timeMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = time.UnixMicro(micros).UTC()
	return
}

func (timeMUS) Size(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

func (timeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

type timeSliceMUS struct{}

func (timeSliceMUS) Marshal(v []time.Time, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, t := range v {
		n += timeMUS{}.Marshal(t, bs[n:])
	}
	return
}

func (timeSliceMUS) Unmarshal(bs []byte) (v []time.Time, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrTruncatedRecord
		return
	}
	if length == 0 {
		return
	}
	v = make([]time.Time, length)
	var n1 int
	for i := 0; i < length; i++ {
		v[i], n1, err = timeMUS{}.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (timeSliceMUS) Size(v []time.Time) (size int) {
	size = varint.Int.Size(len(v))
	for _, t := range v {
		size += timeMUS{}.Size(t)
	}
	return
}

func (s timeSliceMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type vectorMUS struct{}

func (vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return
}

func (vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrTruncatedRecord
		return
	}
	if length == 0 {
		return
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		v[i], n1, err = varint.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (vectorMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return
}

func (s vectorMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type documentMUS struct{}

func (documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += strMUS{}.Marshal(v.UserId, bs[n:])
	n += varint.Int.Marshal(int(v.Type), bs[n:])
	n += strMUS{}.Marshal(v.Title, bs[n:])
	n += bytesMUS{}.Marshal(v.ContentEncrypted, bs[n:])
	n += timeSliceMUS{}.Marshal(v.Metadata.ContentDates, bs[n:])
	n += varint.Int.Marshal(v.Metadata.ExtractedTextLength, bs[n:])
	n += strMUS{}.Marshal(v.SourceURL, bs[n:])
	n += varint.Int64.Marshal(v.FileSize, bs[n:])
	n += strMUS{}.Marshal(v.MimeType, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += timeMUS{}.Marshal(v.CreatedAt, bs[n:])
	n += timeMUS{}.Marshal(v.UpdatedAt, bs[n:])
	return
}

func (documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.UserId, n1, err = strMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var docType int
	docType, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type = DocumentType(docType)
	v.Title, n1, err = strMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentEncrypted, n1, err = bytesMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata.ContentDates, n1, err = timeSliceMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata.ExtractedTextLength, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SourceURL, n1, err = strMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FileSize, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.MimeType, n1, err = strMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var status int
	status, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = DocumentStatus(status)
	v.CreatedAt, n1, err = timeMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMUS{}.Unmarshal(bs[n:])
	n += n1
	return
}

func (documentMUS) Size(v Document) (size int) {
	size = IDMUS.Size(v.Id)
	size += strMUS{}.Size(v.UserId)
	size += varint.Int.Size(int(v.Type))
	size += strMUS{}.Size(v.Title)
	size += bytesMUS{}.Size(v.ContentEncrypted)
	size += timeSliceMUS{}.Size(v.Metadata.ContentDates)
	size += varint.Int.Size(v.Metadata.ExtractedTextLength)
	size += strMUS{}.Size(v.SourceURL)
	size += varint.Int64.Size(v.FileSize)
	size += strMUS{}.Size(v.MimeType)
	size += varint.Int.Size(int(v.Status))
	size += timeMUS{}.Size(v.CreatedAt)
	size += timeMUS{}.Size(v.UpdatedAt)
	return
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type chunkMUS struct{}

func (chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.DocumentId, bs[n:])
	n += varint.Int.Marshal(v.Index, bs[n:])
	n += bytesMUS{}.Marshal(v.ContentEncrypted, bs[n:])
	n += varint.Int.Marshal(v.StartChar, bs[n:])
	n += varint.Int.Marshal(v.EndChar, bs[n:])
	n += timeMUS{}.Marshal(v.CreatedAt, bs[n:])
	return
}

func (chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.DocumentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Index, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentEncrypted, n1, err = bytesMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartChar, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EndChar, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = timeMUS{}.Unmarshal(bs[n:])
	n += n1
	return
}

func (chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.DocumentId)
	size += varint.Int.Size(v.Index)
	size += bytesMUS{}.Size(v.ContentEncrypted)
	size += varint.Int.Size(v.StartChar)
	size += varint.Int.Size(v.EndChar)
	size += timeMUS{}.Size(v.CreatedAt)
	return
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type embeddingMUS struct{}

func (embeddingMUS) Marshal(v Embedding, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.ChunkId, bs[n:])
	n += vectorMUS{}.Marshal(v.Vector, bs[n:])
	n += strMUS{}.Marshal(v.Model, bs[n:])
	n += timeMUS{}.Marshal(v.CreatedAt, bs[n:])
	return
}

func (embeddingMUS) Unmarshal(bs []byte) (v Embedding, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.ChunkId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = vectorMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Model, n1, err = strMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = timeMUS{}.Unmarshal(bs[n:])
	n += n1
	return
}

func (embeddingMUS) Size(v Embedding) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.ChunkId)
	size += vectorMUS{}.Size(v.Vector)
	size += strMUS{}.Size(v.Model)
	size += timeMUS{}.Size(v.CreatedAt)
	return
}

func (s embeddingMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"strconv"
)

// Form accumulates multipart fields. Optional numeric fields are appended
// only when set, so absent values never reach the wire as empty strings.
type Form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	err    error
}

func NewForm() *Form {
	f := &Form{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

func (f *Form) Field(name, value string) *Form {
	if f.err == nil {
		f.err = f.writer.WriteField(name, value)
	}
	return f
}

func (f *Form) OptionalField(name, value string) *Form {
	if value == "" {
		return f
	}
	return f.Field(name, value)
}

func (f *Form) OptionalInt(name string, value *int) *Form {
	if value == nil {
		return f
	}
	return f.Field(name, strconv.Itoa(*value))
}

func (f *Form) File(field, filename string, content io.Reader) *Form {
	if f.err != nil {
		return f
	}
	part, err := f.writer.CreateFormFile(field, filename)
	if err != nil {
		f.err = err
		return f
	}
	if _, err := io.Copy(part, content); err != nil {
		f.err = err
	}
	return f
}

// Encode finalizes the form and returns the content type (with boundary)
// and the encoded body.
func (f *Form) Encode() (string, io.Reader, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	if err := f.writer.Close(); err != nil {
		return "", nil, err
	}
	return f.writer.FormDataContentType(), &f.buf, nil
}

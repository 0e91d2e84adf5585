package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
)

// ProgressFunc receives the number of file bytes handed to the transport so far.
// total is -1 when the size was not given.
type ProgressFunc func(sent, total int64)

type UploadRequest struct {
	Title       string
	Description string
	FileName    string
	// ContentType defaults to video/mp4.
	ContentType string
	File        io.Reader
	// Size enables a meaningful total in Progress. Zero means unknown.
	Size     int64
	Progress ProgressFunc
}

// Upload streams the file as multipart/form-data. Nothing is buffered in full on the client side.
// The client timeout does not apply here, so a slow uplink is bounded only by ctx.
func (c *Client) Upload(ctx context.Context, s *Session, in UploadRequest) (*Video, error) {
	if in.File == nil {
		return nil, fmt.Errorf("upload: file is required")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(mw, in))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		_ = pr.Close()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Video Video `json:"video"`
	}
	err = c.send(c.uploadClient, req, s, &out)
	_ = pr.Close()
	if err != nil {
		return nil, err
	}
	return &out.Video, nil
}

func writeUploadForm(mw *multipart.Writer, in UploadRequest) error {
	if err := mw.WriteField("title", in.Title); err != nil {
		return err
	}
	if err := mw.WriteField("description", in.Description); err != nil {
		return err
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "video/mp4"
	}
	name := filepath.Base(in.FileName)
	if name == "." || name == "/" {
		name = "video"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, escapeQuotes(name)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	total := in.Size
	if total <= 0 {
		total = -1
	}
	src := io.Reader(in.File)
	if in.Progress != nil {
		src = &progressReader{r: in.File, total: total, fn: in.Progress}
	}
	if _, err := io.Copy(part, src); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	clienterrors "github.com/mazi76erX2/trac8-frontend/client/internal/errors"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// UploadField is the multipart field the item import endpoint reads.
const UploadField = "file"

// ItemAdapter is the item resource plus bulk import by file upload.
type ItemAdapter struct {
	*CrudAdapter
	rc *resty.Client
}

// NewItemAdapter shares hc, and so its transport chain, with the multipart
// client.
func NewItemAdapter(conn Conn, hc *http.Client) *ItemAdapter {
	rc := resty.New()
	if hc != nil {
		rc = resty.NewWithClient(hc)
	}
	rc.SetBaseURL(strings.TrimRight(conn.BaseURL, "/"))
	return &ItemAdapter{
		CrudAdapter: NewCrudAdapter(conn, ResourceItem, basePaths[ResourceItem]),
		rc:          rc,
	}
}

// Upload posts the contents of r as a multipart file named filename.
func (a *ItemAdapter) Upload(ctx context.Context, filename string, r io.Reader) (record.Value, error) {
	if err := ctx.Err(); err != nil {
		return record.Value{}, err
	}
	if filename == "" {
		return record.Value{}, fmt.Errorf("upload item: empty filename")
	}
	resp, err := a.rc.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetFileReader(UploadField, filename, r).
		Post(a.base + "/upload")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return record.Value{}, ctxErr
		}
		return record.Value{}, clienterrors.NewNetworkError("upload item", err)
	}
	if !resp.IsSuccess() {
		return record.Value{}, clienterrors.NewHTTPError(resp.StatusCode(), resp.String(), "upload item")
	}
	return decodeValue(resp.Body(), "upload item")
}

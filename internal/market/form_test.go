package market

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/heartshare/internal/model"
)

type formFile struct {
	name, contentType string
	data              []byte
}

// formRequest builds a donation form with the image part first, the way the
// donate page orders its inputs.
func formRequest(t *testing.T, file *formFile, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if file != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/donate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func donationFields() map[string]string {
	return map[string]string{
		model.FieldName:         "Kitchen Mixer",
		model.FieldDescription:  "Three speeds",
		model.FieldCategory:     "Kitchen",
		model.FieldCondition:    "Fair",
		model.FieldLocation:     "Suburb Area",
		model.FieldContactEmail: "mixer@example.com",
	}
}

func TestReadDonationForm(t *testing.T) {
	png := testPNG(t)
	req := formRequest(t, &formFile{"mixer.png", "image/png", png}, donationFields())

	d, up, err := ReadDonationForm(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, testDonation(), d)
	assert.True(t, up.Present)
	assert.Equal(t, "image/png", up.MIME)
	assert.Equal(t, int64(len(png)), up.Size)
	assert.Empty(t, up.Problem)

	got, err := io.ReadAll(up.Body)
	require.NoError(t, err)
	assert.Equal(t, png, got)
}

func TestReadDonationFormNoFilePicked(t *testing.T) {
	req := formRequest(t, &formFile{"", "application/octet-stream", nil}, donationFields())

	d, up, err := ReadDonationForm(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, "Kitchen Mixer", d.Name)
	assert.False(t, up.Present)
}

func TestReadDonationFormOversizedImageKeepsFields(t *testing.T) {
	fields := donationFields()
	fields[model.FieldName] = ""
	big := bytes.Repeat([]byte{0xff}, model.MaxImageBytes+1)
	req := formRequest(t, &formFile{"huge.jpg", "image/jpeg", big}, fields)

	d, up, err := ReadDonationForm(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, "Three speeds", d.Description)
	assert.Equal(t, "Image must be less than 5MB", up.Problem)

	svc := newTestService(t)
	_, err = svc.Donate(req.Context(), d, up)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Item name is required", verr.Fields[model.FieldName])
	assert.Equal(t, "Image must be less than 5MB", verr.Fields[model.FieldImage])
}

func TestReadDonationFormBodyOverCap(t *testing.T) {
	big := bytes.Repeat([]byte{0xff}, maxFormBytes+1)
	req := formRequest(t, &formFile{"huge.jpg", "image/jpeg", big}, nil)

	_, _, err := ReadDonationForm(httptest.NewRecorder(), req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Equal(t, "Image must be less than 5MB", verr.Fields[model.FieldImage])
	assert.NotEmpty(t, verr.Fields[model.FieldName])
}

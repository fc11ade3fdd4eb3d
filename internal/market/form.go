package market

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/erazemk/heartshare/internal/model"
)

const (
	// maxFormBytes caps the whole request. Oversized photos are drained up to
	// this point so the text fields after them still arrive.
	maxFormBytes = 8 * model.MaxImageBytes
	// maxFieldBytes caps a single text field.
	maxFieldBytes = 64 << 10

	msgImageTooLarge = "Image must be less than 5MB"
)

// ReadDonationForm streams a multipart donation form with an optional "image"
// file. An image that is too large is reported in Upload.Problem next to the
// text fields, so Donate validates both at once.
func ReadDonationForm(w http.ResponseWriter, r *http.Request) (model.Donation, Upload, error) {
	var d model.Donation
	var up Upload

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		return d, up, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return d, up, nil
		}
		if err != nil {
			return d, up, formError(err, d)
		}

		if part.FormName() == model.FieldImage {
			up, err = readImagePart(part)
		} else {
			err = readTextPart(part, &d)
		}
		part.Close()
		if err != nil {
			return d, up, formError(err, d)
		}
	}
}

// formError turns a body over maxFormBytes into a validation error for the
// image plus whatever the text fields read so far are missing.
func formError(err error, d model.Donation) error {
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		return err
	}
	errs := d.Validate()
	errs[model.FieldImage] = msgImageTooLarge
	return &ValidationError{Fields: errs}
}

func readImagePart(part *multipart.Part) (Upload, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, model.MaxImageBytes+1))
	if err != nil {
		return Upload{}, err
	}

	if n > model.MaxImageBytes {
		rest, err := io.Copy(io.Discard, part)
		return Upload{Present: true, Size: n + rest, Problem: msgImageTooLarge}, err
	}

	// Browsers send an empty part with no filename when no file was picked.
	if n == 0 && part.FileName() == "" {
		return Upload{}, nil
	}

	return Upload{
		Present: true,
		MIME:    part.Header.Get("Content-Type"),
		Size:    n,
		Body:    bytes.NewReader(buf.Bytes()),
	}, nil
}

func readTextPart(part *multipart.Part, d *model.Donation) error {
	value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
	if err != nil {
		return err
	}

	v := string(value)
	switch part.FormName() {
	case model.FieldName:
		d.Name = v
	case model.FieldDescription:
		d.Description = v
	case model.FieldCategory:
		d.Category = v
	case model.FieldCondition:
		d.Condition = v
	case model.FieldLocation:
		d.Location = v
	case model.FieldContactEmail:
		d.ContactEmail = v
	}
	return nil
}

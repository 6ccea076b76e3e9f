package page

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"github.com/couchcryptid/weather-to-wear/internal/session"
	"github.com/couchcryptid/weather-to-wear/internal/upload"
)

// SelectFile stores the chosen closet photo in the session, or clears it
// when fh is nil. A rejected file also clears the selection.
func (c *Controller) SelectFile(sess *session.Session, fh *multipart.FileHeader) error {
	if fh == nil {
		sess.SetUpload(nil)
		c.metrics.Uploads.WithLabelValues("cleared").Inc()
		return nil
	}

	img, err := upload.Read(fh, c.opts.MaxUploadBytes)
	if err != nil {
		sess.SetUpload(nil)
		c.metrics.Uploads.WithLabelValues("rejected").Inc()
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			c.metrics.ValidationErrors.WithLabelValues(vErr.Reason).Inc()
			return vErr
		}
		c.logger.Error("read upload failed", "session", sess.ID, "error", err)
		return &domain.ValidationError{Reason: "unreadable_image", Message: domain.MsgUnsupportedImage}
	}

	sess.SetUpload(&img)
	c.metrics.Uploads.WithLabelValues("accepted").Inc()
	return nil
}

// Submit requests outfit suggestions for the selected photo and the current
// hour's weather. A photo attached to the request replaces any earlier
// selection. Missing photo or weather fails before any request is made. The
// session's loading flag is cleared however the request ends.
func (c *Controller) Submit(ctx context.Context, sess *session.Session, fh *multipart.FileHeader) error {
	if fh != nil {
		if err := c.SelectFile(sess, fh); err != nil {
			return err
		}
	}

	img, ok := sess.Upload()
	if !ok {
		c.metrics.ValidationErrors.WithLabelValues("no_image").Inc()
		return &domain.ValidationError{Reason: "no_image", Message: domain.MsgNoImage}
	}
	weather, ok := sess.Snapshot()
	if !ok {
		c.metrics.ValidationErrors.WithLabelValues("no_weather").Inc()
		return &domain.ValidationError{Reason: "no_weather", Message: domain.MsgNoWeather}
	}

	sess.SetLoading(true)
	defer sess.SetLoading(false)

	zip := sess.Zipcode()
	text, err := c.suggester.FetchSuggestions(ctx, img, weather)
	if err != nil {
		c.record(ctx, domain.ActivitySuggestions, Wear, zip, domain.OutcomeError)
		c.logger.Error("fashion suggestions failed", "session", sess.ID, "error", err)
		return asRequestError(err, domain.MsgSuggestionsFailed)
	}

	sess.SetSuggestions(text)
	c.record(ctx, domain.ActivitySuggestions, Wear, zip, domain.OutcomeSuccess)
	return nil
}

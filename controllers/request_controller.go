package controllers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cppla/requestdesk/models"
	"github.com/cppla/requestdesk/store"
	"github.com/cppla/requestdesk/utils"
)

const (
	// MaxImages is the number of files accepted under the images field.
	MaxImages = 6

	imagesField     = "images"
	createdAtLayout = "2006-01-02T15:04:05.000Z"

	msgReceived      = "Request received. We will get back to you shortly."
	msgProcessFailed = "Failed to process request"
)

// ErrTooManyImages is returned when a submission carries more than MaxImages files.
var ErrTooManyImages = fmt.Errorf("more than %d images uploaded", MaxImages)

// Notifier delivers the operator notification for a new submission.
type Notifier interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// RequestController accepts product request submissions and lists them.
type RequestController struct {
	store         *store.SubmissionStore
	uploadsRoot   string
	notifier      Notifier
	maxImageBytes int64
	now           func() time.Time
}

// NewRequestController creates a RequestController. maxImageBytes <= 0 disables the per-file cap.
func NewRequestController(st *store.SubmissionStore, uploadsRoot string, notifier Notifier, maxImageBytes int64) *RequestController {
	return &RequestController{
		store:         st,
		uploadsRoot:   uploadsRoot,
		notifier:      notifier,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
	}
}

// Create handles POST /api/requests.
//
// Files are written and the record appended before the notification is sent,
// so a failed send still leaves the submission stored.
func (rc *RequestController) Create(ctx *gin.Context) {
	sub, err := rc.intake(ctx)
	if err != nil {
		utils.Sugar.Errorw("failed to process request", "error", err, "ip", ctx.ClientIP(), "submission", sub.ID)
		utils.Fail(ctx, http.StatusInternalServerError, msgProcessFailed)
		return
	}
	utils.Sugar.Infow("submission received", "submission", sub.ID, "images", len(sub.Images))
	utils.Success(ctx, msgReceived)
}

// List handles GET /api/requests. It always answers 200.
func (rc *RequestController) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, rc.store.ReadAll())
}

func (rc *RequestController) intake(ctx *gin.Context) (models.Submission, error) {
	files, err := uploadedImages(ctx)
	if err != nil {
		return models.Submission{}, err
	}

	name := ctx.PostForm("name")
	client := utils.SanitizeName(name)
	images := make([]string, 0, len(files))
	for _, fh := range files {
		ref, err := rc.storeImage(client, fh)
		if err != nil {
			return models.Submission{}, err
		}
		images = append(images, ref)
	}

	now := rc.now()
	sub := models.Submission{
		ID:             newSubmissionID(now),
		Name:           name,
		Email:          ctx.PostForm("email"),
		Phone:          ctx.PostForm("phone"),
		WhatsApp:       ctx.PostForm("whatsapp"),
		ProductDetails: ctx.PostForm("productDetails"),
		Images:         images,
		CreatedAt:      now.UTC().Format(createdAtLayout),
	}
	if err := rc.store.Append(sub); err != nil {
		return sub, fmt.Errorf("append submission: %w", err)
	}

	body, err := utils.ComposeNotification(sub)
	if err != nil {
		return sub, err
	}
	if err := rc.notifier.Send(ctx.Request.Context(), utils.NotificationSubject(sub.Name), body); err != nil {
		return sub, fmt.Errorf("send notification: %w", err)
	}
	return sub, nil
}

func (rc *RequestController) storeImage(client string, fh *multipart.FileHeader) (string, error) {
	p, err := utils.PlaceUpload(rc.uploadsRoot, client, fh.Filename, rc.now())
	if err != nil {
		return "", err
	}
	if rc.maxImageBytes > 0 && fh.Size > rc.maxImageBytes {
		return "", fmt.Errorf("image %q: %w", fh.Filename, utils.ErrUploadTooLarge)
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()
	if err := utils.SaveUpload(p, src, rc.maxImageBytes); err != nil {
		return "", fmt.Errorf("image %q: %w", fh.Filename, err)
	}
	return p.PublicPath, nil
}

// uploadedImages returns the files under the images field in upload order.
// Bodies that are not multipart carry no files.
func uploadedImages(ctx *gin.Context) ([]*multipart.FileHeader, error) {
	form, err := ctx.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}
	files := form.File[imagesField]
	if len(files) > MaxImages {
		return nil, ErrTooManyImages
	}
	return files, nil
}

// newSubmissionID is a base36 millisecond timestamp plus 8 random hex chars.
func newSubmissionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix
}

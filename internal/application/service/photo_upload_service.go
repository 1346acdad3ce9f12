package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/utils"
)

// TreatmentPhotosPath is the public route phones open from the QR code
const TreatmentPhotosPath = "/api/v1/treatment-photos/"

// DefaultQRSize is the edge length of generated QR codes in pixels
const DefaultQRSize = 256

// NetworkInfo describes how devices on the salon network reach this server
type NetworkInfo struct {
	Hostname string `json:"hostname"`
	LocalIP  string `json:"local_ip"`
	Port     string `json:"port"`
	BaseURL  string `json:"base_url"`
}

// LocalIPv4 returns the first non-loopback IPv4 address of this host
func LocalIPv4() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", errors.New("no non-loopback IPv4 address found")
}

// UploadLink is the URL encoded in a treatment photo QR code
type UploadLink struct {
	TreatmentID uuid.UUID `json:"treatment_id"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UploadPage is what a phone sees after scanning the QR code
type UploadPage struct {
	TreatmentID   uuid.UUID `json:"treatment_id"`
	CustomerName  string    `json:"customer_name"`
	TreatmentDate string    `json:"treatment_date"`
	ImageCount    int       `json:"image_count"`
	UploadURL     string    `json:"upload_url"`
}

// PhotoUploadService issues and checks the links that let a phone without an
// account add photos to one treatment
type PhotoUploadService struct {
	treatmentRepo repository.TreatmentRepository
	jwtManager    *utils.JWTManager
	publicBaseURL string
	port          string
	ttl           time.Duration
	localIP       func() (string, error)
}

// NewPhotoUploadService creates a new photo upload service. When publicBaseURL
// is empty links point at this host's LAN address on port.
func NewPhotoUploadService(
	treatmentRepo repository.TreatmentRepository,
	jwtManager *utils.JWTManager,
	publicBaseURL, port string,
	ttl time.Duration,
) *PhotoUploadService {
	return &PhotoUploadService{
		treatmentRepo: treatmentRepo,
		jwtManager:    jwtManager,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		port:          port,
		ttl:           ttl,
		localIP:       LocalIPv4,
	}
}

// NetworkInfo reports the address used to build upload links
func (s *PhotoUploadService) NetworkInfo() *NetworkInfo {
	hostname, _ := os.Hostname()
	ip, err := s.localIP()
	if err != nil {
		ip = "localhost"
	}
	return &NetworkInfo{
		Hostname: hostname,
		LocalIP:  ip,
		Port:     s.port,
		BaseURL:  s.baseURL(),
	}
}

func (s *PhotoUploadService) baseURL() string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL
	}
	host, err := s.localIP()
	if err != nil {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, s.port)
}

// UploadLink signs a new link for the treatment
func (s *PhotoUploadService) UploadLink(ctx context.Context, treatmentID uuid.UUID) (*UploadLink, error) {
	t, err := s.treatmentRepo.GetByID(ctx, treatmentID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NewNotFoundError("Treatment")
	}

	token, expiresAt, err := s.jwtManager.GenerateUploadToken(treatmentID, s.ttl)
	if err != nil {
		return nil, err
	}

	return &UploadLink{
		TreatmentID: treatmentID,
		URL:         s.baseURL() + TreatmentPhotosPath + treatmentID.String() + "?token=" + url.QueryEscape(token),
		ExpiresAt:   expiresAt,
	}, nil
}

// QRCode renders a fresh upload link as a PNG of size x size pixels
func (s *PhotoUploadService) QRCode(ctx context.Context, treatmentID uuid.UUID, size int) ([]byte, *UploadLink, error) {
	if size <= 0 {
		size = DefaultQRSize
	}

	link, err := s.UploadLink(ctx, treatmentID)
	if err != nil {
		return nil, nil, err
	}

	code, err := qr.Encode(link.URL, qr.M, qr.Auto)
	if err != nil {
		return nil, nil, err
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), link, nil
}

// VerifyToken checks an upload token presented by a phone
func (s *PhotoUploadService) VerifyToken(treatmentID uuid.UUID, token string) error {
	if token == "" {
		return apperror.ErrUnauthorized
	}
	if err := s.jwtManager.ValidateUploadToken(token, treatmentID); err != nil {
		return apperror.ErrInvalidToken
	}
	return nil
}

// UploadPage describes the treatment a valid token was issued for
func (s *PhotoUploadService) UploadPage(ctx context.Context, treatmentID uuid.UUID, token string) (*UploadPage, error) {
	if err := s.VerifyToken(treatmentID, token); err != nil {
		return nil, err
	}

	t, err := s.treatmentRepo.GetByID(ctx, treatmentID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NewNotFoundError("Treatment")
	}

	page := &UploadPage{
		TreatmentID:   t.ID,
		TreatmentDate: t.TreatmentDate.Format("2006-01-02"),
		ImageCount:    len(t.Images),
		UploadURL:     TreatmentPhotosPath + t.ID.String() + "/images?token=" + url.QueryEscape(token),
	}
	if t.Customer != nil {
		page.CustomerName = t.Customer.Name
	}
	return page, nil
}

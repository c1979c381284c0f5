package labels

import (
	"context"
	"fmt"

	"shiplabel/internal/models"
	"shiplabel/pkg/easypost"
	emailSvc "shiplabel/pkg/email"
	"shiplabel/pkg/logger"

	"go.uber.org/zap"
)

// ShipmentClient is the boundary to the external shipment broker. The
// concrete implementation lives in pkg/easypost; the service only depends on
// this contract so tests can substitute a fake.
type ShipmentClient interface {
	CreateShipment(ctx context.Context, from, to easypost.Address, parcel easypost.Parcel) (*easypost.Shipment, error)
	BuyShipment(ctx context.Context, shipmentID string, rate easypost.Rate) (*easypost.Shipment, error)
	RefundShipment(ctx context.Context, shipmentID string) (bool, error)
}

// ServiceInterface defines the contract for the label service.
type ServiceInterface interface {
	GetRates(ctx context.Context, req models.CreateLabelRequest) ([]models.RateOption, error)
	CreateLabel(ctx context.Context, userID, userEmail string, req models.CreateLabelRequest) (*models.ShippingLabel, error)
	GetLabel(ctx context.Context, userID string, labelID int64) (*models.ShippingLabel, error)
	ListLabels(ctx context.Context, userID string, filters models.LabelFilters, page, limit int) ([]*models.ShippingLabel, int, error)
	GetStats(ctx context.Context, userID string) (*models.LabelStats, error)
	CancelLabel(ctx context.Context, userID string, labelID int64) error
}

// Service implements the label purchase and retrieval logic.
type Service struct {
	repo      RepositoryInterface
	client    ShipmentClient
	emailer   emailSvc.ServiceInterface
	templates *emailSvc.TemplateManager
	carrier   string
}

// NewService creates a new label service. carrier is the carrier labels are
// purchased from (normally "USPS"). emailer may be nil; receipts are then
// skipped.
func NewService(
	repo RepositoryInterface,
	client ShipmentClient,
	emailer emailSvc.ServiceInterface,
	templates *emailSvc.TemplateManager,
	carrier string,
) ServiceInterface {
	return &Service{
		repo:      repo,
		client:    client,
		emailer:   emailer,
		templates: templates,
		carrier:   carrier,
	}
}

// GetRates quotes a shipment without purchasing anything. It returns the
// carrier-filtered quotes in the order the upstream produced them.
func (s *Service) GetRates(ctx context.Context, req models.CreateLabelRequest) ([]models.RateOption, error) {
	shipment, err := s.client.CreateShipment(ctx, formatFromAddress(req), formatToAddress(req), formatParcel(req))
	if err != nil {
		return nil, fmt.Errorf("service.GetRates: %w", err)
	}
	return filterRates(shipment.Rates, s.carrier), nil
}

// CreateLabel runs the full purchase flow: quote the shipment, pick the
// cheapest eligible rate, buy it, and persist the outcome. A missing eligible
// rate or a failed buy aborts before any local write. If the buy succeeds but
// the local write fails, the purchased shipment stays unknown to local
// records; that window is accepted and no compensating refund is issued.
func (s *Service) CreateLabel(ctx context.Context, userID, userEmail string, req models.CreateLabelRequest) (*models.ShippingLabel, error) {
	shipment, err := s.client.CreateShipment(ctx, formatFromAddress(req), formatToAddress(req), formatParcel(req))
	if err != nil {
		return nil, fmt.Errorf("service.CreateLabel: %w", err)
	}

	rate, err := cheapestRate(shipment.Rates, s.carrier)
	if err != nil {
		return nil, err
	}

	bought, err := s.client.BuyShipment(ctx, shipment.ID, *rate)
	if err != nil {
		return nil, fmt.Errorf("service.CreateLabel: %w", err)
	}

	label := buildLabelRecord(userID, req, *rate, bought)
	created, err := s.repo.Create(ctx, label)
	if err != nil {
		logger.Get().Error("CRITICAL: label purchased upstream but local record write failed",
			zap.String("shipment_id", bought.ID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("service.CreateLabel: %w", err)
	}

	s.sendPurchaseReceipt(userEmail, req.FromName, created)

	return created, nil
}

// buildLabelRecord flattens the purchase outcome into the persisted shape.
func buildLabelRecord(userID string, req models.CreateLabelRequest, rate easypost.Rate, bought *easypost.Shipment) *models.ShippingLabel {
	label := &models.ShippingLabel{
		UserID:             userID,
		EasypostShipmentID: bought.ID,

		FromName:    req.FromName,
		FromCompany: req.FromCompany,
		FromStreet1: req.FromStreet1,
		FromStreet2: req.FromStreet2,
		FromCity:    req.FromCity,
		FromState:   req.FromState,
		FromZip:     req.FromZip,
		FromCountry: "US",
		FromPhone:   req.FromPhone,

		ToName:    req.ToName,
		ToCompany: req.ToCompany,
		ToStreet1: req.ToStreet1,
		ToStreet2: req.ToStreet2,
		ToCity:    req.ToCity,
		ToState:   req.ToState,
		ToZip:     req.ToZip,
		ToCountry: "US",
		ToPhone:   req.ToPhone,

		Weight: req.Weight,
		Length: req.Length,
		Width:  req.Width,
		Height: req.Height,

		Carrier: rate.Carrier,
		Service: rate.Service,
		Rate:    rate.Rate,
		Status:  models.LabelStatusPurchased,
	}

	// The buy response carries the selected rate again; prefer it when
	// present so the stored price matches what was actually charged.
	if bought.SelectedRate != nil {
		label.Carrier = bought.SelectedRate.Carrier
		label.Service = bought.SelectedRate.Service
		label.Rate = bought.SelectedRate.Rate
	}

	if bought.TrackingCode != "" {
		tracking := bought.TrackingCode
		label.TrackingCode = &tracking
	}
	if bought.PostageLabel != nil {
		if bought.PostageLabel.LabelURL != "" {
			url := bought.PostageLabel.LabelURL
			label.LabelURL = &url
		}
		label.LabelPdfURL = bought.PostageLabel.LabelPdfURL
		label.LabelPngURL = bought.PostageLabel.LabelPngURL
	}

	return label
}

func (s *Service) sendPurchaseReceipt(userEmail, name string, label *models.ShippingLabel) {
	if s.emailer == nil || s.templates == nil || userEmail == "" {
		return
	}

	labelURL := ""
	if label.LabelURL != nil {
		labelURL = *label.LabelURL
	}
	tracking := ""
	if label.TrackingCode != nil {
		tracking = *label.TrackingCode
	}

	htmlContent, err := s.templates.GeneratePurchaseReceiptHTML(emailSvc.ReceiptData{
		Name:         name,
		Carrier:      label.Carrier,
		Service:      label.Service,
		Rate:         label.Rate.StringFixed(2),
		TrackingCode: tracking,
		LabelURL:     labelURL,
	})
	if err != nil {
		logger.Get().Warn("Failed to render purchase receipt email", zap.Error(err))
		return
	}

	subject := "Your shipping label is ready"
	plain := fmt.Sprintf("Your %s %s label was purchased for $%s. Tracking code: %s. Label: %s",
		label.Carrier, label.Service, label.Rate.StringFixed(2), tracking, labelURL)

	go func() {
		// Receipts must not block or fail the purchase response.
		if err := s.emailer.SendEmail(context.Background(), userEmail, subject, plain, htmlContent); err != nil {
			logger.Get().Warn("Failed to send purchase receipt email",
				zap.String("to", userEmail),
				zap.Error(err),
			)
		}
	}()
}

// GetLabel retrieves one label owned by the user.
func (s *Service) GetLabel(ctx context.Context, userID string, labelID int64) (*models.ShippingLabel, error) {
	return s.repo.FindByIDForUser(ctx, userID, labelID)
}

// ListLabels retrieves a page of the user's labels, newest first.
func (s *Service) ListLabels(ctx context.Context, userID string, filters models.LabelFilters, page, limit int) ([]*models.ShippingLabel, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20 // Default/max limit
	}
	return s.repo.ListByUser(ctx, userID, filters, page, limit)
}

// GetStats computes the user's dashboard aggregates.
func (s *Service) GetStats(ctx context.Context, userID string) (*models.LabelStats, error) {
	return s.repo.StatsForUser(ctx, userID)
}

// CancelLabel requests a refund upstream and, only if the upstream accepts,
// marks the local record cancelled. An upstream policy rejection leaves the
// record untouched and surfaces as models.ErrNotRefundable.
func (s *Service) CancelLabel(ctx context.Context, userID string, labelID int64) error {
	label, err := s.repo.FindByIDForUser(ctx, userID, labelID)
	if err != nil {
		return err
	}

	if label.Status == models.LabelStatusCancelled {
		return models.ErrAlreadyCancelled
	}

	refunded, err := s.client.RefundShipment(ctx, label.EasypostShipmentID)
	if err != nil {
		return fmt.Errorf("service.CancelLabel: %w", err)
	}
	if !refunded {
		return models.ErrNotRefundable
	}

	return s.repo.UpdateStatusForUser(ctx, userID, labelID, models.LabelStatusCancelled)
}

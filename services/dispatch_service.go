package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/repository"
)

// DispatchService renders printable dispatch slips for warehouse fulfilment.
// Slips are only offered for orders that still need dispatching: Delivered
// orders are refused.
type DispatchService struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

func NewDispatchService(orders repository.OrderRepository, logger *zap.Logger) *DispatchService {
	return &DispatchService{orders: orders, logger: logger}
}

// SlipPDF renders a single order's dispatch slip.
func (s *DispatchService) SlipPDF(ctx context.Context, orderID uuid.UUID) ([]byte, *ServiceError) {
	order, svcErr := s.loadForSlip(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	pdf := newSlipDocument()
	renderSlip(pdf, order)
	return outputPDF(pdf, s.logger)
}

// BatchPDF renders one slip per order into a single multi-page document.
// Orders are processed strictly in the given sequence; the first failure
// aborts the whole batch with no partial result.
func (s *DispatchService) BatchPDF(ctx context.Context, orderIDs []uuid.UUID) ([]byte, *ServiceError) {
	if len(orderIDs) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "At least one order ID is required"}
	}

	pdf := newSlipDocument()
	for _, id := range orderIDs {
		order, svcErr := s.loadForSlip(ctx, id)
		if svcErr != nil {
			return nil, svcErr
		}
		renderSlip(pdf, order)
	}
	return outputPDF(pdf, s.logger)
}

func (s *DispatchService) loadForSlip(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: fmt.Sprintf("Order %s not found", orderID)}
		}
		s.logger.Error("Failed to fetch order for slip", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	if order.Status == models.StatusDelivered {
		return nil, &ServiceError{
			StatusCode: 409,
			Message:    fmt.Sprintf("Dispatch slip not available for delivered order %s", order.OrderNumber),
		}
	}
	return order, nil
}

func newSlipDocument() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	return pdf
}

// renderSlip draws the fixed slip layout onto a fresh page.
func renderSlip(pdf *gofpdf.Fpdf, order *models.Order) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Aishwarya Collections", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Dispatch Slip", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Order %s", order.OrderNumber), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Placed: %s", order.CreatedAt.Format("02 Jan 2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Payment: %s", order.PaymentMethod), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Ship to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, order.ShipName, "", 1, "L", false, 0, "")
	pdf.MultiCell(0, 6, order.ShipAddress, "", "L", false)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s - %s", order.ShipCity, order.ShipPincode), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Size", "B", 0, "L", false, 0, "")
	pdf.CellFormat(15, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Price", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range order.OrderItems {
		pdf.CellFormat(110, 7, item.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, item.Size, "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, FormatAmount(item.Price), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(150, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, FormatAmount(order.Amount), "T", 1, "R", false, 0, "")
}

func outputPDF(pdf *gofpdf.Fpdf, logger *zap.Logger) ([]byte, *ServiceError) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		logger.Error("Failed to render dispatch slip PDF", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to render dispatch slip"}
	}
	return buf.Bytes(), nil
}

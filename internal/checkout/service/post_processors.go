package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"eventcheckout/internal/domain"
	apperrors "eventcheckout/internal/errors"
)

const confirmationNumberPrefix = "CN-"

// EnrollmentProcessor enrolls every selected, non-waitlisted attendee that
// carries an email.
type EnrollmentProcessor struct {
	employees   EmployeeFinder
	enrollments EnrollmentWriter
}

func NewEnrollmentProcessor(employees EmployeeFinder, enrollments EnrollmentWriter) *EnrollmentProcessor {
	return &EnrollmentProcessor{employees: employees, enrollments: enrollments}
}

func (p *EnrollmentProcessor) Name() string { return "enrollment" }

func (p *EnrollmentProcessor) Process(ctx context.Context, tx *sql.Tx, f *Finalization) error {
	checkout := f.Checkout
	if checkout.EventSessionID == nil {
		return apperrors.NewEventSessionNotFoundError()
	}

	for _, a := range checkout.SeatedAttendees() {
		email, ok := a.TrimmedEmail()
		if !ok || email == "" {
			continue
		}

		employeeID, err := matchEmployee(ctx, p.employees, email, checkout.CompanyID)
		if err != nil {
			return err
		}

		enrollment := domain.Enrollment{
			EventSessionID:  *checkout.EventSessionID,
			EmployeeID:      employeeID,
			Email:           &email,
			FirstName:       a.FirstName,
			LastName:        a.LastName,
			SpecialRequests: a.SpecialRequests,
			CheckoutID:      checkout.ID,
			EnrolledAt:      f.Now,
		}
		if err := p.enrollments.Create(ctx, tx, &enrollment); err != nil {
			return err
		}
		f.Enrollments = append(f.Enrollments, enrollment)
	}
	return nil
}

// WaitlistProcessor appends every selected, waitlisted attendee to the end
// of the event session's waitlist at the event price.
type WaitlistProcessor struct {
	employees EmployeeFinder
	waitlist  WaitlistWriter
}

func NewWaitlistProcessor(employees EmployeeFinder, waitlist WaitlistWriter) *WaitlistProcessor {
	return &WaitlistProcessor{employees: employees, waitlist: waitlist}
}

func (p *WaitlistProcessor) Name() string { return "waitlist" }

func (p *WaitlistProcessor) Process(ctx context.Context, tx *sql.Tx, f *Finalization) error {
	checkout := f.Checkout
	waitlisted := checkout.WaitlistedAttendees()
	if len(waitlisted) == 0 {
		return nil
	}
	if checkout.EventSessionID == nil {
		return apperrors.NewEventSessionNotFoundError()
	}
	event := checkout.Event()
	if event == nil {
		return apperrors.NewEventNotFoundError()
	}

	position, err := p.waitlist.MaxPosition(ctx, tx, *checkout.EventSessionID)
	if err != nil {
		return err
	}

	for _, a := range waitlisted {
		position++

		var (
			email      *string
			employeeID *int64
		)
		if trimmed, ok := a.TrimmedEmail(); ok && trimmed != "" {
			email = &trimmed
			employeeID, err = matchEmployee(ctx, p.employees, trimmed, checkout.CompanyID)
			if err != nil {
				return err
			}
		}

		entry := domain.EnrollmentWaitlist{
			EventSessionID:     *checkout.EventSessionID,
			EmployeeID:         employeeID,
			Email:              email,
			FirstName:          a.FirstName,
			LastName:           a.LastName,
			SpecialRequests:    a.SpecialRequests,
			WaitlistPosition:   position,
			SeatPrice:          event.Price,
			OriginalCheckoutID: checkout.ID,
			WaitlistedAt:       f.Now,
		}
		if err := p.waitlist.Create(ctx, tx, &entry); err != nil {
			return err
		}
		f.Waitlist = append(f.Waitlist, entry)
	}
	return nil
}

// MetadataProcessor completes the checkout: status, amount, finalization
// time and a confirmation number when none was assigned yet.
type MetadataProcessor struct {
	checkouts CompletionWriter
	tries     int
}

func NewMetadataProcessor(checkouts CompletionWriter, tries int) *MetadataProcessor {
	if tries <= 0 {
		tries = 1
	}
	return &MetadataProcessor{checkouts: checkouts, tries: tries}
}

func (p *MetadataProcessor) Name() string { return "metadata" }

func (p *MetadataProcessor) Process(ctx context.Context, tx *sql.Tx, f *Finalization) error {
	checkout := f.Checkout
	if err := checkout.TransitionTo(domain.CheckoutStatusCompleted); err != nil {
		return err
	}

	amount := f.Breakdown.Total
	now := f.Now
	checkout.Amount = &amount
	checkout.FinalizedAt = &now
	checkout.UpdatedAt = now

	if checkout.ConfirmationNumber == nil || *checkout.ConfirmationNumber == "" {
		number, err := p.uniqueConfirmationNumber(ctx)
		if err != nil {
			return err
		}
		checkout.ConfirmationNumber = &number
	}

	return p.checkouts.MarkCompleted(ctx, tx, checkout)
}

// uniqueConfirmationNumber skips numbers already stored. The lookup runs
// outside the finalize transaction, so two concurrent checkouts can still
// draw the same free number; the UNIQUE key then fails MarkCompleted with
// 1062 and the payment retry starts a fresh attempt.
func (p *MetadataProcessor) uniqueConfirmationNumber(ctx context.Context) (string, error) {
	for i := 0; i < p.tries; i++ {
		number := NewConfirmationNumber()
		existing, err := p.checkouts.FindOneByConfirmationNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return number, nil
		}
	}
	return "", apperrors.NewInternalError(fmt.Sprintf("no unused confirmation number after %d attempts", p.tries), nil)
}

// NewConfirmationNumber returns CN- followed by 12 uppercase hex characters.
func NewConfirmationNumber() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return confirmationNumberPrefix + strings.ToUpper(hex[:12])
}

// RedemptionProcessor records the voucher seats and discount code consumed
// by the checkout as invoice line items.
type RedemptionProcessor struct {
	lineItems LineItemWriter
}

func NewRedemptionProcessor(lineItems LineItemWriter) *RedemptionProcessor {
	return &RedemptionProcessor{lineItems: lineItems}
}

func (p *RedemptionProcessor) Name() string { return "redemption" }

func (p *RedemptionProcessor) Process(ctx context.Context, tx *sql.Tx, f *Finalization) error {
	checkout := f.Checkout
	invoice := ""
	if f.Request != nil {
		invoice = f.Request.InvoiceNumber
	}

	price := 0.0
	if event := checkout.Event(); event != nil {
		price = event.Price
	}

	vouchers := min(f.Request.RequestedVouchers(), checkout.SelectedNonWaitlistCount())
	for i := 0; i < vouchers; i++ {
		if err := p.insert(ctx, tx, f, domain.InvoiceLineItem{
			CheckoutID:    checkout.ID,
			CompanyID:     checkout.CompanyID,
			InvoiceNumber: invoice,
			Description:   "Voucher seat",
			IsVoucher:     true,
			Amount:        -price,
			CreatedAt:     f.Now,
		}); err != nil {
			return err
		}
	}

	if f.Request.HasDiscountCode() {
		code := *f.Request.DiscountCode
		if err := p.insert(ctx, tx, f, domain.InvoiceLineItem{
			CheckoutID:    checkout.ID,
			CompanyID:     checkout.CompanyID,
			InvoiceNumber: invoice,
			Description:   "Discount code " + code,
			DiscountCode:  &code,
			Amount:        -f.Breakdown.CodeDiscount,
			CreatedAt:     f.Now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *RedemptionProcessor) insert(ctx context.Context, tx *sql.Tx, f *Finalization, item domain.InvoiceLineItem) error {
	if err := p.lineItems.Insert(ctx, tx, &item); err != nil {
		return err
	}
	f.LineItems = append(f.LineItems, item)
	return nil
}

func matchEmployee(ctx context.Context, employees EmployeeFinder, email string, companyID int64) (*int64, error) {
	employee, err := employees.FindOneByEmailAndCompany(ctx, email, companyID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, nil
	}
	id := employee.ID
	return &id, nil
}

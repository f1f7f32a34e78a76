package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type IssuedTicket struct {
	Number    string
	QRPayload string
}

// TicketIssuer produces the ticket numbers and QR payloads for a confirmed
// booking. Numbers are globally unique.
type TicketIssuer interface {
	Issue(bookingRef, eventID string, quantity int) []IssuedTicket
}

type uuidIssuer struct{}

func NewTicketIssuer() TicketIssuer {
	return uuidIssuer{}
}

func (uuidIssuer) Issue(bookingRef, eventID string, quantity int) []IssuedTicket {
	tickets := make([]IssuedTicket, 0, quantity)
	for i := 0; i < quantity; i++ {
		number := "TKT" + randomToken(10)
		tickets = append(tickets, IssuedTicket{
			Number:    number,
			QRPayload: fmt.Sprintf("TICKET:%s|EVENT:%s|BOOKING:%s", number, eventID, bookingRef),
		})
	}
	return tickets
}

// randomToken returns n uppercase hex characters from a fresh UUID.
func randomToken(n int) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:n])
}

func newBookingReference() string {
	return "BK" + randomToken(8)
}

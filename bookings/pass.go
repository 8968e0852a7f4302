package bookings

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"parkly/db"
	"parkly/models"
	"parkly/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func passSecret() []byte {
	if s := os.Getenv("PASS_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("parkly-pass-secret")
}

// SignPassPayload returns "bookingid|slotid|timestamp|signature".
func SignPassPayload(bookingID, slotID string, issuedAt int64) string {
	data := fmt.Sprintf("%s|%s|%d", bookingID, slotID, issuedAt)
	h := hmac.New(sha256.New, passSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return data + "|" + sig
}

// VerifyPassPayload checks the signature and returns the booking id.
func VerifyPassPayload(payload string) (string, bool) {
	parts := strings.Split(payload, "|")
	if len(parts) != 4 {
		return "", false
	}
	data := strings.Join(parts[:3], "|")
	h := hmac.New(sha256.New, passSecret())
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(parts[3])) {
		return "", false
	}
	return parts[0], true
}

// PrintPass renders the caller's active booking as a one-page PDF pass with a
// signed QR code for the gate scanner.
func PrintPass(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	booking, ok, err := ActiveForEmployee(ctx, empID)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "no active booking", http.StatusNotFound)
		return
	}

	var emp models.Employee
	if err := db.EmployeesCollection.FindOne(ctx, bson.M{"empid": empID}).Decode(&emp); err != nil {
		http.Error(w, "employee not found", http.StatusNotFound)
		return
	}

	payload := SignPassPayload(booking.BookingID, booking.SlotID, time.Now().Unix())
	qrPNG, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Parking Pass")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Employee: %s", emp.FullName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Building: %s", booking.Building))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Slot: %s (%s)", booking.SlotName, booking.Floor))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Valid until: %s", booking.ExpiryTime.Format("15:04, 02 Jan 2006")))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=pass-"+booking.BookingID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// VerifyPass is the gate-scanner endpoint: checks the QR payload signature and
// that the referenced booking is still active.
func VerifyPass(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload := r.URL.Query().Get("payload")
	bookingID, ok := VerifyPassPayload(payload)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid pass")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&b); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		return
	}
	if !b.Active(time.Now()) {
		utils.RespondWithError(w, http.StatusConflict, "pass expired or booking released")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "slot": b.SlotName, "floor": b.Floor})
}

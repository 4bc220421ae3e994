package utils

// codes.go generates the human-readable document numbers used across the
// registration and payment flow.  All three variants share one scheme: the
// last six digits of the current unix timestamp plus a short random suffix.
// Uniqueness is probabilistic only; the store's unique indexes are the final
// arbiter and the generators never check or retry.  Failure of the random
// source is surfaced as an error and treated as fatal by callers.

import (
	"crypto/rand" // secure random source for the suffixes
	"fmt"
	"time"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // unambiguous uppercase set

// timeSuffix returns the last six digits of t's unix timestamp, zero padded.
func timeSuffix(t time.Time) string {
	return fmt.Sprintf("%06d", t.Unix()%1000000)
}

// randomCode returns n characters drawn from codeAlphabet.
func randomCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}

// NewRegistrationCode produces a code like REG-483920-7KQ.
func NewRegistrationCode(now time.Time) (string, error) {
	suf, err := randomCode(3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("REG-%s-%s", timeSuffix(now), suf), nil
}

// NewInvoiceNumber produces an invoice number like INV/2026/08/483920XK3P.
func NewInvoiceNumber(now time.Time) (string, error) {
	return periodNumber("INV", now)
}

// NewReceiptNumber produces a receipt number like RCP/2026/08/483920XK3P.
// Receipts are only assigned once an amount has actually been settled.
func NewReceiptNumber(now time.Time) (string, error) {
	return periodNumber("RCP", now)
}

// NewManualInvoiceNumber produces the invoice number for a manually recorded
// payment.  Pure billing rows (nothing paid yet) are tagged INV- while rows
// recording actual money use PAY-MANUAL-.
func NewManualInvoiceNumber(now time.Time, amountPaid int64) (string, error) {
	suf, err := randomCode(4)
	if err != nil {
		return "", err
	}
	prefix := "INV"
	if amountPaid > 0 {
		prefix = "PAY-MANUAL"
	}
	return fmt.Sprintf("%s-%s%s", prefix, timeSuffix(now), suf), nil
}

// periodNumber builds "<tag>/<year>/<month>/<6-digit-time-suffix><4-char-random>".
func periodNumber(tag string, now time.Time) (string, error) {
	suf, err := randomCode(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d/%02d/%s%s", tag, now.Year(), int(now.Month()), timeSuffix(now), suf), nil
}

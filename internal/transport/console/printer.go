package console

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/otp-dispatch/internal/application/dispatch"
)

// Printer writes the human-readable report of a dispatch run.
type Printer struct {
	out  io.Writer
	ok   *color.Color
	fail *color.Color
}

// NewPrinter returns a Printer writing to w. With colorize false the markers are
// plain text, which is what pipes and tests want.
func NewPrinter(w io.Writer, colorize bool) *Printer {
	p := &Printer{
		out:  w,
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
	}
	if !colorize {
		p.ok.DisableColor()
		p.fail.DisableColor()
	}
	return p
}

// Generated prints the code and the recipient ahead of the send.
func (p *Printer) Generated(code, recipient string) {
	fmt.Fprintf(p.out, "🔐 Generated OTP: %s\n", code)
	fmt.Fprintf(p.out, "📱 Sending to: %s\n", recipient)
}

// Outcome prints what the provider answered. The response body is only shown
// when delivery failed.
func (p *Printer) Outcome(o *dispatch.Outcome) {
	if o.Err != nil || o.Result == nil {
		err := o.Err
		if err == nil {
			err = errors.New("no response")
		}
		p.Error(err)
		return
	}

	fmt.Fprintln(p.out, "Response Status Code:", o.Result.StatusCode)
	if o.Result.OK() {
		p.ok.Fprintln(p.out, "✅ Message sent successfully!")
		if o.Result.MessageID != "" {
			fmt.Fprintln(p.out, "Message ID:", o.Result.MessageID)
		}
		return
	}

	p.fail.Fprintln(p.out, "❌ Failed to send message!")
	fmt.Fprintln(p.out, "Status Code:", o.Result.StatusCode)
	fmt.Fprintln(p.out, "Response:", string(o.Result.Body))
}

// Error prints a failure that left no provider response to show.
func (p *Printer) Error(err error) {
	p.fail.Fprintln(p.out, "Error:", err)
}

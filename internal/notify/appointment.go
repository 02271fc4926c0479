package notify

import (
	"context"

	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/hairfy/appointment-notifier/internal/template"
)

// ValuesFor maps an enriched appointment onto template values.
func ValuesFor(a model.Appointment) template.Values {
	v := template.Values{
		ClientName:  a.ClientName,
		Date:        a.Date,
		StartTime:   a.StartTime,
		ServiceName: a.ServiceName,
		PriceCents:  a.ServicePrice,
		StaffName:   a.StaffName,
		TenantName:  a.TenantName,
	}
	if a.TenantAddress != nil {
		v.TenantAddress = *a.TenantAddress
	}
	return v
}

func appointmentRequest(a model.Appointment, mt model.MessageType, tt model.TemplateType) Request {
	id := a.ID
	return Request{
		TenantID:      a.TenantID,
		AppointmentID: &id,
		Destination:   a.ClientPhone,
		ClientName:    a.ClientName,
		MessageType:   mt,
		TemplateType:  tt,
		Values:        ValuesFor(a),
	}
}

// Remind sends the day-before reminder and flags the appointment on success.
func (d *Dispatcher) Remind(ctx context.Context, a model.Appointment) (Outcome, error) {
	return d.Send(ctx, appointmentRequest(a, model.MessageReminder, model.TemplateAppointmentReminder))
}

// Confirm sends the booking confirmation. It never touches the reminder flag.
func (d *Dispatcher) Confirm(ctx context.Context, a model.Appointment) (Outcome, error) {
	return d.Send(ctx, appointmentRequest(a, model.MessageConfirmation, model.TemplateAppointmentConfirmed))
}

// SendText sends an ad hoc message through the same pipeline, without a template.
func (d *Dispatcher) SendText(ctx context.Context, tenantID int64, phone, text string) (Outcome, error) {
	return d.Send(ctx, Request{
		TenantID:     tenantID,
		Destination:  phone,
		MessageType:  model.MessageCustom,
		TemplateType: model.TemplateCustom,
		Text:         text,
	})
}

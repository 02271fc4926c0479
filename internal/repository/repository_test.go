package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "mysql"), mock
}

func TestTenantsRepository_GetByAPIKey(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTenantsRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "address", "api_key", "status", "rate_limit_rps", "created_at", "updated_at"}).
			AddRow(7, "Barbearia Central", "Rua A, 10", "key-7", "active", nil, now, now)
		mock.ExpectQuery("FROM tenants").WithArgs("key-7").WillReturnRows(rows)

		tn, err := repo.GetByAPIKey(ctx, "key-7")
		require.NoError(t, err)
		require.NotNil(t, tn)
		assert.Equal(t, int64(7), tn.ID)
		require.NotNil(t, tn.Address)
		assert.Equal(t, "Rua A, 10", *tn.Address)
		assert.Nil(t, tn.RateLimitRPS)
		assert.True(t, tn.Active())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("FROM tenants").WithArgs("missing").WillReturnError(sql.ErrNoRows)

		tn, err := repo.GetByAPIKey(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, tn)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionsRepository(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSessionsRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("GetByTenant", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"tenant_id", "instance_token", "is_connected", "phone_number", "last_connected_at", "updated_at"}).
			AddRow(3, "tok-3", true, nil, now, now)
		mock.ExpectQuery("FROM whatsapp_sessions").WithArgs(int64(3)).WillReturnRows(rows)

		s, err := repo.GetByTenant(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.True(t, s.Usable())
		assert.Equal(t, "tok-3", s.InstanceToken)
	})

	t.Run("GetByTenant_Missing", func(t *testing.T) {
		mock.ExpectQuery("FROM whatsapp_sessions").WithArgs(int64(4)).WillReturnError(sql.ErrNoRows)

		s, err := repo.GetByTenant(ctx, 4)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("GetByTenant_StoreError", func(t *testing.T) {
		mock.ExpectQuery("FROM whatsapp_sessions").WithArgs(int64(5)).WillReturnError(errors.New("conn refused"))

		_, err := repo.GetByTenant(ctx, 5)
		require.Error(t, err)
	})

	t.Run("UpdateConnection_Connected", func(t *testing.T) {
		mock.ExpectExec("SET is_connected = \\?, last_connected_at = \\?").
			WithArgs(true, now, now, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateConnection(ctx, 3, true, now))
	})

	t.Run("UpdateConnection_Disconnected", func(t *testing.T) {
		mock.ExpectExec("SET is_connected = \\?, updated_at = \\?").
			WithArgs(false, now, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateConnection(ctx, 3, false, now))
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatesRepository_GetActive(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTemplatesRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "template_type", "message", "is_active", "updated_at"}).
		AddRow(1, 3, "appointment_reminder", "Olá {cliente_nome}", true, time.Now())
	mock.ExpectQuery("FROM whatsapp_templates").
		WithArgs(int64(3), "appointment_reminder", true).
		WillReturnRows(rows)

	tpl, err := repo.GetActive(ctx, 3, model.TemplateAppointmentReminder)
	require.NoError(t, err)
	require.NotNil(t, tpl)
	assert.Equal(t, "Olá {cliente_nome}", tpl.Message)

	mock.ExpectQuery("FROM whatsapp_templates").
		WithArgs(int64(3), "appointment_confirmed", true).
		WillReturnError(sql.ErrNoRows)

	tpl, err = repo.GetActive(ctx, 3, model.TemplateAppointmentConfirmed)
	require.NoError(t, err)
	assert.Nil(t, tpl)

	require.NoError(t, mock.ExpectationsWereMet())
}

var appointmentCols = []string{
	"id", "tenant_id", "client_name", "client_phone", "appointment_date", "start_time",
	"service_name", "service_price", "staff_name", "status", "reminder_sent",
	"tenant_name", "tenant_address",
}

func TestAppointmentsRepository_ListDueReminders(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAppointmentsRepository(db)
	ctx := context.Background()
	day := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(appointmentCols).
		AddRow(10, 3, "Ana", "(11) 91234-5678", day, "09:00", "Corte", 4500, "João", "agendado", false, "Barbearia Central", nil).
		AddRow(11, 3, "Bruno", "11988887777", day, "10:30", "Barba", 3000, "João", "confirmado", false, "Barbearia Central", "Rua A, 10")

	mock.ExpectQuery("(?s)FROM appointments a.*JOIN tenants t.*a.status IN \\(\\?, \\?\\).*ORDER BY a.start_time, a.client_name").
		WithArgs("2025-03-11", "agendado", "confirmado", false).
		WillReturnRows(rows)

	got, err := repo.ListDueReminders(ctx, day, []model.AppointmentStatus{model.AppointmentScheduled, model.AppointmentConfirmed})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ana", got[0].ClientName)
	assert.Nil(t, got[0].TenantAddress)
	assert.Equal(t, int64(3000), got[1].ServicePrice)
	require.NotNil(t, got[1].TenantAddress)

	// no statuses means nothing is due
	got, err = repo.ListDueReminders(ctx, day, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentsRepository_GetByIDAndMark(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAppointmentsRepository(db)
	ctx := context.Background()
	day := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(appointmentCols).
		AddRow(10, 3, "Ana", "11912345678", day, "09:00", "Corte", 4500, "João", "agendado", false, "Barbearia Central", nil)
	mock.ExpectQuery("WHERE a.id = \\? AND a.tenant_id = \\?").WithArgs(int64(10), int64(3)).WillReturnRows(rows)

	a, err := repo.GetByID(ctx, 3, 10)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, model.AppointmentScheduled, a.Status)

	mock.ExpectQuery("WHERE a.id = \\? AND a.tenant_id = \\?").WithArgs(int64(99), int64(3)).WillReturnError(sql.ErrNoRows)
	a, err = repo.GetByID(ctx, 3, 99)
	require.NoError(t, err)
	assert.Nil(t, a)

	mock.ExpectExec("UPDATE appointments").
		WithArgs(true, sqlmock.AnyArg(), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkReminderSent(ctx, 10))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveriesRepository(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewDeliveriesRepository(db)
	ctx := context.Background()
	now := time.Now()
	apptID := int64(10)
	reason := string(model.ReasonGateway)
	msg := "gateway rejected message"

	t.Run("Insert", func(t *testing.T) {
		rec := model.DeliveryRecord{
			ID:            "01JABCDEF",
			TenantID:      3,
			AppointmentID: &apptID,
			PhoneNumber:   "5511912345678",
			Message:       "Olá Ana",
			TemplateType:  model.TemplateAppointmentReminder,
			Status:        model.DeliveryFailed,
			InstanceToken: "tok-3",
			FailureReason: &reason,
			ErrorMessage:  &msg,
			CreatedAt:     now,
			FailedAt:      &now,
		}
		mock.ExpectExec("INSERT INTO whatsapp_message_queue").
			WithArgs("01JABCDEF", int64(3), sqlmock.AnyArg(), "5511912345678", "Olá Ana",
				"appointment_reminder", "failed", "tok-3", sqlmock.AnyArg(), sqlmock.AnyArg(),
				now, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Insert(ctx, rec))
	})

	t.Run("ListByTenant_Filters", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "tenant_id", "appointment_id", "phone_number", "message", "template_type", "status",
			"instance_token", "failure_reason", "error_message", "created_at", "sent_at", "failed_at"}).
			AddRow("01JB", 3, nil, "5511912345678", "oi", "custom", "sent", "tok-3", nil, nil, now, now, nil)
		mock.ExpectQuery("AND status = \\? AND phone_number = \\? ORDER BY created_at DESC LIMIT \\? OFFSET \\?").
			WithArgs(int64(3), "sent", "5511912345678", 50, 0).
			WillReturnRows(rows)

		got, err := repo.ListByTenant(ctx, DeliveryFilter{TenantID: 3, Status: model.DeliverySent, Phone: "5511912345678", Limit: 5000, Offset: -1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, model.DeliverySent, got[0].Status)
		assert.Nil(t, got[0].AppointmentID)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

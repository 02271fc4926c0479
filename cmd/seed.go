package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hairfy/appointment-notifier/internal/app"
	"github.com/hairfy/appointment-notifier/internal/config"
	"github.com/hairfy/appointment-notifier/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo tenants, templates and appointments",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// 2) connect store
		sqlDB, err := app.OpenDB(cfg)
		if err != nil {
			return fmt.Errorf("%s connect: %w", cfg.Database.Driver, err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo tenants...")

		tx, err := sqlDB.Beginx()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		now := time.Now().UTC()
		for _, s := range demoTenants() {
			id, err := upsertTenant(tx, s.tenant, now)
			if err != nil {
				return err
			}
			if err := upsertSession(tx, id, s.token, s.connected, now); err != nil {
				return err
			}
			if err := upsertTemplates(tx, id, now); err != nil {
				return err
			}
			if err := ensureAppointments(tx, id, cfg.Sweep.Location(), now); err != nil {
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit seed: %w", err)
		}

		log.Println(">> Seed completed")
		return nil
	},
}

type demoTenant struct {
	tenant    model.Tenant
	token     string
	connected bool
}

func demoTenants() []demoTenant {
	return []demoTenant{
		{
			tenant:    model.Tenant{Name: "Barbearia Centro", Address: strptr("Rua Augusta, 1200 - São Paulo"), APIKey: "11111111111111111111111111111111", Status: "active", RateLimitRPS: intptr(20)},
			token:     "demo-token-centro",
			connected: true,
		},
		{
			tenant:    model.Tenant{Name: "Studio Navalha", APIKey: "22222222222222222222222222222222", Status: "active", RateLimitRPS: intptr(5)},
			token:     "demo-token-navalha",
			connected: false,
		},
		{
			tenant: model.Tenant{Name: "Barbearia Suspensa", APIKey: "33333333333333333333333333333333", Status: "suspended"},
		},
	}
}

// upsertTenant keys on api_key (UNIQUE) and returns the tenant id.
func upsertTenant(tx *sqlx.Tx, t model.Tenant, now time.Time) (int64, error) {
	var id int64
	err := tx.Get(&id, tx.Rebind(`SELECT id FROM tenants WHERE api_key = ?`), t.APIKey)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO tenants (name, address, api_key, status, rate_limit_rps, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`), t.Name, t.Address, t.APIKey, t.Status, t.RateLimitRPS, now, now); err != nil {
			return 0, fmt.Errorf("insert tenant %q: %w", t.Name, err)
		}
		if err := tx.Get(&id, tx.Rebind(`SELECT id FROM tenants WHERE api_key = ?`), t.APIKey); err != nil {
			return 0, fmt.Errorf("reload tenant %q: %w", t.Name, err)
		}
	case err != nil:
		return 0, fmt.Errorf("lookup tenant %q: %w", t.Name, err)
	default:
		if _, err := tx.Exec(tx.Rebind(`
			UPDATE tenants SET name = ?, address = ?, status = ?, rate_limit_rps = ?, updated_at = ?
			 WHERE id = ?
		`), t.Name, t.Address, t.Status, t.RateLimitRPS, now, id); err != nil {
			return 0, fmt.Errorf("update tenant %q: %w", t.Name, err)
		}
	}
	return id, nil
}

func upsertSession(tx *sqlx.Tx, tenantID int64, token string, connected bool, now time.Time) error {
	if token == "" {
		return nil
	}
	if _, err := tx.Exec(tx.Rebind(`DELETE FROM whatsapp_sessions WHERE tenant_id = ?`), tenantID); err != nil {
		return fmt.Errorf("reset session %d: %w", tenantID, err)
	}
	var lastConnected *time.Time
	if connected {
		lastConnected = &now
	}
	if _, err := tx.Exec(tx.Rebind(`
		INSERT INTO whatsapp_sessions (tenant_id, instance_token, is_connected, last_connected_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`), tenantID, token, connected, lastConnected, now); err != nil {
		return fmt.Errorf("insert session %d: %w", tenantID, err)
	}
	return nil
}

var demoTemplates = map[model.TemplateType]string{
	model.TemplateAppointmentConfirmed: "Olá {cliente_nome}! Seu horário na {barbearia_nome} está confirmado para {data} às {horario}.\n" +
		"Serviço: {servico} ({preco}) com {profissional}.\nEndereço: {barbearia_endereco}",
	model.TemplateAppointmentReminder: "Oi {cliente_nome}, lembrete: amanhã ({data}) às {horario} você tem {servico} com {profissional} na {barbearia_nome}.\n" +
		"Endereço: {barbearia_endereco}",
}

func upsertTemplates(tx *sqlx.Tx, tenantID int64, now time.Time) error {
	for typ, body := range demoTemplates {
		res, err := tx.Exec(tx.Rebind(`
			UPDATE whatsapp_templates SET message = ?, is_active = ?, updated_at = ?
			 WHERE tenant_id = ? AND template_type = ?
		`), body, true, now, tenantID, typ.String())
		if err != nil {
			return fmt.Errorf("update template %s: %w", typ, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			continue
		}
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO whatsapp_templates (tenant_id, template_type, message, is_active, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`), tenantID, typ.String(), body, true, now); err != nil {
			return fmt.Errorf("insert template %s: %w", typ, err)
		}
	}
	return nil
}

// ensureAppointments books two demo slots for tomorrow when the tenant has none.
func ensureAppointments(tx *sqlx.Tx, tenantID int64, loc *time.Location, now time.Time) error {
	tomorrow := now.In(loc).AddDate(0, 0, 1).Format(time.DateOnly)

	var n int
	if err := tx.Get(&n, tx.Rebind(`
		SELECT COUNT(*) FROM appointments WHERE tenant_id = ? AND appointment_date = ?
	`), tenantID, tomorrow); err != nil {
		return fmt.Errorf("count appointments: %w", err)
	}
	if n > 0 {
		return nil
	}

	slots := []model.Appointment{
		{ClientName: "João Silva", ClientPhone: "(11) 91234-5678", StartTime: "09:00:00", ServiceName: "Corte", ServicePrice: 4500, StaffName: "Carlos", Status: model.AppointmentScheduled},
		{ClientName: "Maria Souza", ClientPhone: "11 98765-4321", StartTime: "14:30:00", ServiceName: "Corte e barba", ServicePrice: 7000, StaffName: "Rafael", Status: model.AppointmentConfirmed},
	}
	for _, a := range slots {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO appointments
				(tenant_id, client_name, client_phone, appointment_date, start_time, service_name,
				 service_price, staff_name, status, reminder_sent, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`), tenantID, a.ClientName, a.ClientPhone, tomorrow, a.StartTime, a.ServiceName,
			a.ServicePrice, a.StaffName, string(a.Status), false, now, now); err != nil {
			return fmt.Errorf("insert appointment for %q: %w", a.ClientName, err)
		}
	}
	return nil
}

func intptr(i int) *int       { return &i }
func strptr(s string) *string { return &s }

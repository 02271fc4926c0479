package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleValues() Values {
	return Values{
		ClientName:    "Ana",
		Date:          time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime:     "09:30",
		ServiceName:   "Corte",
		PriceCents:    4500,
		StaffName:     "João",
		TenantName:    "Barbearia Central",
		TenantAddress: "Rua A, 10",
	}
}

func TestRender_AllPlaceholders(t *testing.T) {
	body := "Olá {cliente_nome}! {servico} com {profissional} em {data} às {horario}, R$ {preco}. " +
		"{barbearia_nome} - {barbearia_endereco}"

	got := Render(body, sampleValues())
	assert.Equal(t, "Olá Ana! Corte com João em 11/03/2025 às 09:30, R$ 45,00. Barbearia Central - Rua A, 10", got)
}

func TestRender_RepeatedAndUnknownTokens(t *testing.T) {
	got := Render("{cliente_nome} {cliente_nome} {desconhecido}", sampleValues())
	assert.Equal(t, "Ana Ana {desconhecido}", got)
}

func TestRender_InsertedValuesAreNotReexpanded(t *testing.T) {
	v := sampleValues()
	v.ClientName = "{servico}"

	assert.Equal(t, "{servico} / Corte", Render("{cliente_nome} / {servico}", v))
}

func TestRender_OrderIndependent(t *testing.T) {
	v := sampleValues()
	a := Render("{data} {preco} {cliente_nome}", v)
	b := Render("{cliente_nome} {preco} {data}", v)
	assert.Equal(t, "11/03/2025 45,00 Ana", a)
	assert.Equal(t, "Ana 45,00 11/03/2025", b)
}

func TestRender_DefaultAddress(t *testing.T) {
	v := sampleValues()
	v.TenantAddress = "  "
	assert.Equal(t, "Endereço não informado", Render("{barbearia_endereco}", v))

	r := NewRenderer("Sem endereço")
	assert.Equal(t, "Sem endereço", r.Render("{barbearia_endereco}", v))
}

func TestRender_Price(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1050, "10,50"},
		{0, "0,00"},
		{5, "0,05"},
		{123456, "1.234,56"},
	}
	for _, tt := range tests {
		v := sampleValues()
		v.PriceCents = tt.cents
		assert.Equal(t, tt.want, Render("{preco}", v), "cents=%d", tt.cents)
	}
}

func TestKeys(t *testing.T) {
	assert.ElementsMatch(t, []string{
		"{cliente_nome}", "{data}", "{horario}", "{servico}", "{preco}",
		"{profissional}", "{barbearia_nome}", "{barbearia_endereco}",
	}, Keys())
}

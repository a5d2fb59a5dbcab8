package eventos

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestBusNilEsNoOp(t *testing.T) {
	var b *Bus

	// Publicar sobre un bus nil no debe entrar en pánico ni bloquear.
	b.Publicar(context.Background(), "cotizaciones", Evento{Tipo: TipoInsert, Entidad: "cotizacion", ID: 1})

	ch := b.Suscribir(context.Background(), "cotizaciones")
	if _, abierto := <-ch; abierto {
		t.Fatal("la suscripción de un bus nil debe venir cerrada")
	}
}

func TestNewBusSinDireccion(t *testing.T) {
	if b := NewBus("   ", ""); b != nil {
		t.Fatal("sin dirección de Redis el bus debe ser nil")
	}
}

func TestPublicarYSuscribir(t *testing.T) {
	mr := miniredis.RunT(t)
	b := NewBus(mr.Addr(), "")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := b.Suscribir(ctx, "proyectos")

	// El mensaje solo llega a suscripciones ya establecidas; publicamos
	// periódicamente hasta recibirlo.
	enviado := Evento{Tipo: TipoUpdate, Entidad: "proyecto", ID: 42}
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case ev := <-ch:
			if ev.Tipo != TipoUpdate || ev.Entidad != "proyecto" || ev.ID != 42 {
				t.Fatalf("evento inesperado: %+v", ev)
			}
			return
		case <-tick.C:
			b.Publicar(ctx, "proyectos", enviado)
		case <-ctx.Done():
			t.Fatal("no llegó el evento publicado")
		}
	}
}

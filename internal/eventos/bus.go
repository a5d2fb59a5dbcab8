package eventos

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Tipos de evento de una colección, espejo de los cambios de fila.
const (
	TipoInsert = "insert"
	TipoUpdate = "update"
	TipoDelete = "delete"
)

// Evento es el cambio publicado a los tableros suscritos.
type Evento struct {
	Tipo    string `json:"tipo"`
	Entidad string `json:"entidad"`
	ID      uint   `json:"id,omitempty"`
	Datos   any    `json:"datos,omitempty"`
}

// Bus publica eventos de cambio por Redis pub/sub. Un Bus nil es un no-op:
// sin Redis configurado los tableros pierden las actualizaciones en vivo
// pero ninguna escritura se bloquea.
type Bus struct {
	rdb     *redis.Client
	prefijo string
}

// NewBus devuelve nil si no hay dirección de Redis configurada.
func NewBus(addr, password string) *Bus {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	return &Bus{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		prefijo: "habitar:eventos",
	}
}

func (b *Bus) canalCompleto(canal string) string {
	return b.prefijo + ":" + canal
}

// Publicar serializa y publica el evento. Los errores solo se registran:
// la actualización en vivo es de mejor esfuerzo.
func (b *Bus) Publicar(ctx context.Context, canal string, ev Evento) {
	if b == nil || b.rdb == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("eventos: error serializando evento: %v", err)
		return
	}
	if err := b.rdb.Publish(ctx, b.canalCompleto(canal), payload).Err(); err != nil {
		log.Printf("eventos: error publicando en %s: %v", canal, err)
	}
}

// Suscribir abre una suscripción al canal y entrega los eventos decodificados.
// El canal devuelto se cierra al cancelar el contexto.
func (b *Bus) Suscribir(ctx context.Context, canal string) <-chan Evento {
	out := make(chan Evento)
	if b == nil || b.rdb == nil {
		close(out)
		return out
	}

	sub := b.rdb.Subscribe(ctx, b.canalCompleto(canal))
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Evento
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("eventos: payload inválido en %s: %v", canal, err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

package usuario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/estudio-habitar/api-cotizaciones/internal/auth"
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type correoFake struct {
	enviados []string
	enlaces  []string
}

func (c *correoFake) EnviarReset(destino, nombre, enlace string) error {
	c.enviados = append(c.enviados, destino)
	c.enlaces = append(c.enlaces, enlace)
	return nil
}

func montarUsuarios(t *testing.T) (*gorm.DB, *Handler, *correoFake, *mux.Router) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("abrir sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Usuario{}, &TokenReset{}); err != nil {
		t.Fatalf("migrar: %v", err)
	}
	auth.Configurar("secreto-de-prueba")

	correo := &correoFake{}
	h := NewHandler(db, correo, "https://habitar.example")

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/auth/recuperar", h.SolicitarReset).Methods("POST")
	r.HandleFunc("/auth/recuperar/clave", h.ActualizarClave).Methods("POST")
	r.HandleFunc("/auth/recuperar/{token}", h.VerificarReset).Methods("GET")
	r.HandleFunc("/usuarios", h.Crear).Methods("POST")
	r.HandleFunc("/usuarios", h.Listar).Methods("GET")
	return db, h, correo, r
}

func sembrarUsuario(t *testing.T, db *gorm.DB, email, clave string, activo bool) *Usuario {
	t.Helper()
	hash, err := utils.HashClave(clave)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &Usuario{Nombre: "Valentina", Email: email, Clave: hash, Rol: "admin", Activo: activo}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("sembrar usuario: %v", err)
	}
	return u
}

func TestLogin(t *testing.T) {
	db, _, _, r := montarUsuarios(t)
	sembrarUsuario(t, db, "vale@habitar.cl", "clave-segura", true)

	t.Run("credenciales correctas devuelven token", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "vale@habitar.cl", "clave": "clave-segura"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Token   string `json:"token"`
			Usuario struct {
				Email string `json:"email"`
				Clave string `json:"clave"`
			} `json:"usuario"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decodificar: %v", err)
		}
		if resp.Token == "" {
			t.Error("esperaba token no vacío")
		}
		if resp.Usuario.Clave != "" {
			t.Error("la clave no debe salir en el JSON")
		}
		claims, err := auth.ValidarToken(resp.Token)
		if err != nil {
			t.Fatalf("validar token: %v", err)
		}
		if !claims.EsAdmin {
			t.Error("esperaba claim de admin")
		}
	})

	t.Run("clave incorrecta devuelve 401", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "vale@habitar.cl", "clave": "otra"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body)))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, esperaba 401", rec.Code)
		}
	})

	t.Run("usuario desactivado devuelve 403", func(t *testing.T) {
		sembrarUsuario(t, db, "ex@habitar.cl", "clave-segura", false)
		body, _ := json.Marshal(map[string]string{"email": "ex@habitar.cl", "clave": "clave-segura"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body)))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, esperaba 403", rec.Code)
		}
	})
}

func TestRecuperacionDeClave(t *testing.T) {
	db, h, correo, r := montarUsuarios(t)
	u := sembrarUsuario(t, db, "vale@habitar.cl", "clave-vieja", true)

	body, _ := json.Marshal(map[string]string{"email": "vale@habitar.cl"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/recuperar", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("solicitar: status = %d", rec.Code)
	}
	if len(correo.enviados) != 1 {
		t.Fatalf("esperaba 1 correo, hubo %d", len(correo.enviados))
	}

	// el token viaja en el enlace del correo
	enlace := correo.enlaces[0]
	var token string
	if _, err := fmt.Sscanf(enlace, "https://habitar.example/recuperar?token=%s", &token); err != nil {
		t.Fatalf("extraer token de %q: %v", enlace, err)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/auth/recuperar/"+token, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("verificar: status = %d, body %s", rec.Code, rec.Body.String())
	}

	body, _ = json.Marshal(map[string]string{"token": token, "clave": "clave-nueva-8"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/recuperar/clave", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("actualizar clave: status = %d, body %s", rec.Code, rec.Body.String())
	}

	actualizado, err := h.Repository.BuscarPorID(db, u.ID)
	if err != nil {
		t.Fatalf("releer usuario: %v", err)
	}
	if !utils.CheckClave(actualizado.Clave, "clave-nueva-8") {
		t.Error("la clave nueva no quedó guardada")
	}

	t.Run("el token no se puede reusar", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"token": token, "clave": "otra-clave-8"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/recuperar/clave", bytes.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, esperaba 400", rec.Code)
		}
	})

	t.Run("correo inexistente responde 200 igual", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "nadie@habitar.cl"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("POST", "/auth/recuperar", bytes.NewReader(body)))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, esperaba 200", rec.Code)
		}
	})
}

func TestTokenResetVencido(t *testing.T) {
	vencido := TokenReset{UsuarioID: 1, Hash: "x", ExpiraEn: time.Now().Add(-time.Minute)}
	if vencido.Vigente(time.Now()) {
		t.Error("token vencido no debería ser vigente")
	}
	usado := time.Now()
	conUso := TokenReset{UsuarioID: 1, Hash: "y", ExpiraEn: time.Now().Add(time.Hour), UsadoEn: &usado}
	if conUso.Vigente(time.Now()) {
		t.Error("token usado no debería ser vigente")
	}
}

package comentario

import (
	"reflect"
	"testing"
)

func TestExtraerMenciones(t *testing.T) {
	casos := []struct {
		texto    string
		esperado []string
	}{
		{"revisar con @maria antes del viernes", []string{"maria"}},
		{"@pedro @maria @pedro ping", []string{"pedro", "maria"}},
		{"sin menciones acá", []string{}},
		{"correo maria@estudio.cl no es mención de maria", []string{"estudio.cl"}},
		{"@jose.tapia revisa el plano", []string{"jose.tapia"}},
		{"", []string{}},
	}

	for _, c := range casos {
		if got := ExtraerMenciones(c.texto); !reflect.DeepEqual(got, c.esperado) {
			t.Errorf("ExtraerMenciones(%q) = %v, esperado %v", c.texto, got, c.esperado)
		}
	}
}

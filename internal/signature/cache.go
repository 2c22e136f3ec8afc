// Package signature guarda la firma capturada al registrar un diagnóstico
// en la sesión del técnico, con semántica de consumo único: el PDF del
// diagnóstico la lee una vez y la borra. Si el reporte nunca se abre, la
// firma muere con la sesión. No es una entidad persistida.
package signature

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func key(diagnosticID uint) string {
	return fmt.Sprintf("firma:%d", diagnosticID)
}

// Store asocia la firma al diagnóstico dentro de la sesión actual.
func Store(c *gin.Context, diagnosticID uint, name string) {
	sess := sessions.Default(c)
	sess.Set(key(diagnosticID), name)
	_ = sess.Save()
}

// Consume devuelve la firma y la elimina de la sesión. La segunda llamada
// para el mismo diagnóstico reporta ausencia.
func Consume(c *gin.Context, diagnosticID uint) (string, bool) {
	sess := sessions.Default(c)
	k := key(diagnosticID)

	val := sess.Get(k)
	name, ok := val.(string)
	if !ok {
		return "", false
	}

	sess.Delete(k)
	_ = sess.Save()
	return name, true
}

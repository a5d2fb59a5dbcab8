package db

import (
	"context"
	"encoding/json"
	"fmt"

	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type credenciales struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// obtenerCredenciales prefiere DB_USERNAME/DB_PASSWORD del entorno (desarrollo
// local) y cae a Secrets Manager cuando no están definidas.
func obtenerCredenciales(secretID string) (string, string, error) {
	usuario := os.Getenv("DB_USERNAME")
	clave := os.Getenv("DB_PASSWORD")
	if usuario != "" && clave != "" {
		return usuario, clave, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		return "", "", fmt.Errorf("cargar configuración AWS: %w", err)
	}
	secrets := secretsmanager.NewFromConfig(cfg)

	result, err := secrets.GetSecretValue(context.TODO(), &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", fmt.Errorf("leer secreto %q: %w", secretID, err)
	}

	var secret credenciales
	if err = json.Unmarshal([]byte(*result.SecretString), &secret); err != nil {
		return "", "", fmt.Errorf("parsear secreto %q: %w", secretID, err)
	}

	return secret.Username, secret.Password, nil
}

package main

import (
	"fmt"
	"time"
)

const WelcomeMessage = `¡Hola! 👋 Soy tu asistente virtual de La Roca Village.
Estoy aquí para ayudarte a encontrar el restaurante perfecto según tus preferencias. Puedo ayudarte con:

• Recomendaciones de restaurantes según tipo de cocina
• Opciones dietéticas (vegetariano, vegano, sin gluten)
• Ubicación de restaurantes en el centro comercial
• Información sobre precios y horarios
`

const systemPromptTemplate = `Eres el asistente virtual de restauración de La Roca Village, un centro comercial.
Ayudas a los visitantes a encontrar restaurantes y platos usando las herramientas disponibles.

Fecha actual: %s
Hora actual: %s
%s

Reglas:
- Usa search_restaurants para recomendaciones generales de restaurantes.
- Usa search_dishes cuando pregunten por platos concretos.
- Usa get_walking_time para distancias entre restaurantes.
- Solo recomienda restaurantes que aparezcan dentro de bloques <valid>.
- Responde en el idioma del visitante, de forma breve y cercana.`

// SystemPrompt renders the system prompt with the current mall-local date,
// time and meal context.
func SystemPrompt(now time.Time) string {
	mealContext := ""
	switch hour := now.Hour(); {
	case hour >= 7 && hour < 11:
		mealContext = "- Es hora de desayuno."
	case hour >= 13 && hour < 16:
		mealContext = "- Es hora de almuerzo."
	case hour >= 19 && hour < 22:
		mealContext = "- Es hora de cena."
	}

	return fmt.Sprintf(systemPromptTemplate,
		now.Format("Monday, 02 January 2006"),
		now.Format("15:04"),
		mealContext,
	)
}

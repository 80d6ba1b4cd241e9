package services

import "strings"

// Named message bodies the outreach team can pick when recording a contact
// attempt. The portal serves returning migrants in Honduras, so the texts the
// program sends are Spanish.
var messageTemplates = map[string]string{
	"welcome":         "Hola {name}, gracias por registrarte en nuestro portal WiFi. Somos del programa de reintegración y queremos acompañarte. ¿Podemos conversar?",
	"followup":        "Hola {name}, te escribimos de nuevo del programa de reintegración. ¿Cómo te ha ido? Seguimos a tu disposición.",
	"job_opportunity": "Hola {name}, tenemos una oportunidad de empleo que podría interesarte según las habilidades que registraste. Respóndenos para darte los detalles.",
	"support_check":   "Hola {name}, queremos saber si necesitas apoyo del programa en este momento. Cuéntanos cómo podemos ayudarte.",
}

// TemplateNames returns the selectable template names, for the endpoint
// directory and error messages.
func TemplateNames() []string {
	names := make([]string, 0, len(messageTemplates))
	for name := range messageTemplates {
		names = append(names, name)
	}
	return names
}

// OutreachMessage picks the body to record for a contact attempt: the named
// template when it exists, else the free-text message from the request, else
// the default welcome template. {name} is replaced with the recipient's name.
func OutreachMessage(template, freeText, name string) string {
	if body, ok := messageTemplates[template]; ok {
		return interpolate(body, name)
	}
	if strings.TrimSpace(freeText) != "" {
		return strings.TrimSpace(freeText)
	}
	return interpolate(messageTemplates["welcome"], name)
}

func interpolate(body, name string) string {
	return strings.ReplaceAll(body, "{name}", name)
}

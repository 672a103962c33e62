package botservice

import (
	"fmt"
	"strings"

	"whats-my-order/internal/domain/conversation"
	"whats-my-order/internal/domain/orders"
	"whats-my-order/internal/ports"
)

// User-facing copy. The channel audience is Spanish-speaking, matching the
// business this bot serves.
const (
	msgWelcome = "¡Hola! 👋 Bienvenido a Distribuciones El Mayorista."

	msgMenu = "¿Qué deseas hacer?\n" +
		"1️⃣ Ver catálogo y hacer un pedido\n" +
		"2️⃣ Promociones de la semana\n" +
		"3️⃣ Hablar con un asesor\n\n" +
		"Responde con el número de la opción."

	msgInitPrompt = "¡Hola! 👋 Escribe *hola* para comenzar tu pedido."

	msgDidNotUnderstand = "No entendí 😅. Volvamos al inicio."

	msgPromos = "📣 Promociones de la semana: 10% de descuento en pedidos " +
		"superiores a $100. El descuento se aplica al facturar."

	msgAdvisor = "📞 Un asesor te atenderá en el 3000000000 (lunes a sábado, 8am a 6pm)."

	msgItemInstructions = "Envía cada producto como *código cantidad* (ejemplo: A12 2).\n" +
		"Cuando termines, escribe *listo*."

	msgCartEmpty = "🛒 Tu carrito está vacío. Agrega al menos un producto antes de escribir *listo*."

	msgFormatError = "No entendí esa línea 😅. Usa el formato *código cantidad* " +
		"con una cantidad mayor que cero (ejemplo: A12 2)."

	msgInvalidCode = "Ese código no está en el catálogo. Revisa la lista y vuelve a intentarlo."

	msgConfirmOptions = "1️⃣ Confirmar pedido\n" +
		"2️⃣ Modificar pedido\n" +
		"3️⃣ Cancelar\n" +
		"4️⃣ Volver al menú"

	msgInvalidOption = "Opción no válida. Responde con un número del 1 al 4."

	msgDataInstructions = "Para finalizar necesito tus datos 📋. Envía un solo mensaje con cuatro líneas:\n" +
		"1. Nombre completo\n" +
		"2. Dirección de entrega\n" +
		"3. Teléfono de contacto\n" +
		"4. Método de pago (efectivo / transferencia)"

	msgMissingData = "Faltan datos 😅. Necesito las 4 líneas: nombre, dirección, teléfono y método de pago."

	msgCancelled = "Tu pedido fue cancelado ✅. Escribe *hola* cuando quieras empezar de nuevo."

	msgHelp = "Comandos disponibles en cualquier momento:\n" +
		"*menu* — volver al menú principal\n" +
		"*cancelar* — cancelar el pedido en curso\n" +
		"*ayuda* — ver esta ayuda"
)

// catalogListing renders the full product list.
func catalogListing(entries []ports.CatalogEntry) string {
	var b strings.Builder
	b.WriteString("📦 Catálogo:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s — %s (%s)\n", e.Code, e.Name, e.Price.Format())
	}
	return strings.TrimRight(b.String(), "\n")
}

// itemAck acknowledges one upserted cart line.
func itemAck(line conversation.CartLine) string {
	return fmt.Sprintf("✅ %s x%d agregado (%s c/u). Envía otro código o escribe *listo*.",
		line.ProductCode, line.Quantity, line.UnitPrice.Format())
}

// cartSummary renders the itemized confirmation summary for the session.
// Lines are ordered by product code so repeated renders are identical.
func cartSummary(sess *conversation.Session) string {
	var b strings.Builder
	b.WriteString("🧾 Resumen de tu pedido:\n")
	for _, line := range sess.SortedLines() {
		fmt.Fprintf(&b, "- %s %s x%d = %s\n", line.ProductCode, line.DisplayName, line.Quantity, line.Subtotal().Format())
	}
	fmt.Fprintf(&b, "Total: %s", sess.Total.Format())
	return b.String()
}

// receipt renders the final confirmation sent to the customer.
func receipt(order *orders.Order) string {
	var b strings.Builder
	b.WriteString("🎉 ¡Pedido confirmado!\n")
	fmt.Fprintf(&b, "Número de pedido: %s\n\n", order.OrderID)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "- %s %s x%d = %s\n", it.Code, it.Name, it.Quantity, it.Subtotal().Format())
	}
	fmt.Fprintf(&b, "Total: %s\n\n", order.TotalAmount.Format())
	fmt.Fprintf(&b, "Entrega: %s\n", order.DeliveryAddress)
	fmt.Fprintf(&b, "Pago: %s\n", order.PaymentMethod)
	fmt.Fprintf(&b, "Te contactaremos al %s para coordinar la entrega. ¡Gracias, %s!", order.ContactPhone, order.CustomerName)
	return b.String()
}

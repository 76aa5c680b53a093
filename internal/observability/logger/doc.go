// Package logger expone un logger Zap único para todo el proceso, con scoping por request.
//
//   - Init() se llama una sola vez desde cmd/*; L() devuelve la instancia global.
//   - El middleware de logging inyecta un logger con request_id via ToContext;
//     services y controllers lo recuperan con From(ctx).
//   - "dev" escribe en consola con colores, "prod" escribe JSON.
//
// Uso típico en un service:
//
//	log := logger.From(ctx).With(
//	    logger.Layer("service"),
//	    logger.Component("auth"),
//	    logger.Op("CompleteLogin"),
//	)
//	log.Info("login completed", logger.UserID(id), logger.Provider("google"))
//
// Tokens y handles nunca se loguean en claro: usar Fingerprint.
package logger

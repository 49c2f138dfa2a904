package mysql

// -----------------------------------------------------------------------------
// RESERVATION LIFECYCLE
// -----------------------------------------------------------------------------

const lockRoomSQL = `SELECT ocupado FROM habitacion WHERE id_habitacion = ? FOR UPDATE`

const insertReservationSQL = `
INSERT INTO reserva
  (fecha_reserva, fecha_inicio, fecha_fin, cantidad_personas, anticipo_pagado, vencimiento_reserva, id_agencia)
VALUES
  (?, ?, ?, ?, FALSE, ?, ?)
`

const linkRoomSQL = `INSERT INTO habitacion_reserva (id_habitacion, id_reserva) VALUES (?, ?)`

// Guarded: zero rows affected means someone else took the room.
const occupyRoomSQL = `UPDATE habitacion SET ocupado = TRUE WHERE id_habitacion = ? AND ocupado = FALSE`

const linkServiceSQL = `INSERT INTO reserva_servicio (id_reserva, id_servicio) VALUES (?, ?)`

const lockReservationSQL = `SELECT id_reserva FROM reserva WHERE id_reserva = ? FOR UPDATE`

const appendStatusSQL = `INSERT INTO estado_reserva (id_reserva, estado) VALUES (?, ?)`

const releaseRoomsSQL = `
UPDATE habitacion h
JOIN habitacion_reserva hr ON hr.id_habitacion = h.id_habitacion
SET h.ocupado = FALSE
WHERE hr.id_reserva = ?
`

const setDepositPaidSQL = `UPDATE reserva SET anticipo_pagado = TRUE WHERE id_reserva = ?`

const deleteReservationSQL = `DELETE FROM reserva WHERE id_reserva = ?`

// -----------------------------------------------------------------------------
// RESERVATION READS
// -----------------------------------------------------------------------------

const getReservationSQL = `
SELECT id_reserva, fecha_reserva, fecha_inicio, fecha_fin, cantidad_personas,
       anticipo_pagado, vencimiento_reserva, id_agencia
FROM reserva
WHERE id_reserva = ?
`

const reservationRoomsSQL = `
SELECT h.id_habitacion, h.numero_habitacion, th.descripcion
FROM habitacion h
JOIN habitacion_reserva hr ON h.id_habitacion = hr.id_habitacion
JOIN tipo_habitacion th ON h.id_tipo = th.id_tipo
WHERE hr.id_reserva = ?
ORDER BY h.id_habitacion
`

const reservationServicesSQL = `
SELECT s.id_servicio, s.nombre, s.costo
FROM servicio_adicional s
JOIN reserva_servicio rs ON s.id_servicio = rs.id_servicio
WHERE rs.id_reserva = ?
ORDER BY s.id_servicio
`

// Current status is the event with the highest id.
const currentStatusSQL = `
SELECT estado FROM estado_reserva
WHERE id_reserva = ?
ORDER BY id_estado DESC
LIMIT 1
`

// Both filters are optional; a NULL parameter disables its predicate.
const listReservationsSQL = `
SELECT r.id_reserva, r.fecha_inicio, r.fecha_fin, r.cantidad_personas, r.anticipo_pagado,
       COALESCE(er.estado, 'Sin estado')
FROM reserva r
LEFT JOIN estado_reserva er ON er.id_estado = (
  SELECT MAX(id_estado) FROM estado_reserva WHERE id_reserva = r.id_reserva
)
WHERE (? IS NULL OR er.estado = ?)
  AND (? IS NULL OR r.fecha_inicio >= ?)
ORDER BY r.fecha_inicio DESC, r.id_reserva DESC
`

// -----------------------------------------------------------------------------
// STAYS
// -----------------------------------------------------------------------------

const insertStaySQL = `
INSERT INTO registro_hospedaje
  (id_reserva, id_huesped, id_habitacion, fecha_hora_checkin, responsable, mascota)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const guestExistsSQL = `SELECT 1 FROM huesped WHERE numero_id = ?`

const getStaySQL = `
SELECT rh.id_registro, rh.id_reserva, rh.id_huesped, rh.id_habitacion,
       rh.fecha_hora_checkin, rh.fecha_checkout, rh.responsable, rh.mascota, h.tipo_id
FROM registro_hospedaje rh
JOIN huesped h ON h.numero_id = rh.id_huesped
WHERE rh.id_registro = ?
`

const lockStaySQL = `SELECT id_registro FROM registro_hospedaje WHERE id_registro = ? FOR UPDATE`

const checkOutSQL = `UPDATE registro_hospedaje SET fecha_checkout = ? WHERE id_registro = ?`

const listStaysSQL = `
SELECT rh.id_registro, rh.id_reserva, h.nombre, ha.numero_habitacion,
       rh.fecha_hora_checkin, rh.fecha_checkout, rh.responsable, rh.mascota
FROM registro_hospedaje rh
JOIN huesped h ON rh.id_huesped = h.numero_id
JOIN habitacion ha ON rh.id_habitacion = ha.id_habitacion
WHERE (? = FALSE OR rh.fecha_checkout IS NULL)
ORDER BY rh.fecha_hora_checkin DESC, rh.id_registro DESC
`

const listMinorsSQL = `
SELECT DISTINCT h.numero_id, h.nombre, ha.numero_habitacion
FROM huesped h
JOIN registro_hospedaje rh ON h.numero_id = rh.id_huesped
JOIN habitacion ha ON rh.id_habitacion = ha.id_habitacion
WHERE h.tipo_id = ?
  AND rh.fecha_checkout IS NULL
ORDER BY h.nombre
`

const listPetStaysSQL = `
SELECT rh.id_registro, h.nombre, ha.numero_habitacion, rh.fecha_hora_checkin
FROM registro_hospedaje rh
JOIN huesped h ON rh.id_huesped = h.numero_id
JOIN habitacion ha ON rh.id_habitacion = ha.id_habitacion
WHERE rh.mascota = TRUE
  AND rh.fecha_checkout IS NULL
ORDER BY rh.fecha_hora_checkin DESC
`

// -----------------------------------------------------------------------------
// OCCUPANCY RECONCILIATION
// -----------------------------------------------------------------------------

const hotelIDsSQL = `SELECT id_hotel FROM hotel ORDER BY id_hotel`

// expected is true when the room belongs to a reservation whose latest
// status is anything but the one bound to the first parameter (Cancelada).
const occupancyDriftSQL = `
SELECT h.id_habitacion, h.numero_habitacion, h.ocupado,
       EXISTS (
         SELECT 1
         FROM habitacion_reserva hr
         JOIN estado_reserva er ON er.id_estado = (
           SELECT MAX(id_estado) FROM estado_reserva WHERE id_reserva = hr.id_reserva
         )
         WHERE hr.id_habitacion = h.id_habitacion
           AND er.estado <> ?
       ) AS expected
FROM habitacion h
WHERE h.id_hotel = ?
ORDER BY h.id_habitacion
FOR UPDATE
`

const setOccupiedSQL = `UPDATE habitacion SET ocupado = ? WHERE id_habitacion = ?`

// -----------------------------------------------------------------------------
// CATALOG
// -----------------------------------------------------------------------------

const (
	insertCategorySQL = `INSERT INTO categoria (nombre_categoria, fecha_cambio) VALUES (?, NOW())`
	listCategoriesSQL = `SELECT id_categoria, nombre_categoria, fecha_cambio FROM categoria ORDER BY nombre_categoria`
	getCategorySQL    = `SELECT id_categoria, nombre_categoria, fecha_cambio FROM categoria WHERE id_categoria = ?`
	updateCategorySQL = `UPDATE categoria SET nombre_categoria = COALESCE(?, nombre_categoria), fecha_cambio = NOW() WHERE id_categoria = ?`
	deleteCategorySQL = `DELETE FROM categoria WHERE id_categoria = ?`
)

const (
	insertHotelSQL      = `INSERT INTO hotel (nombre, direccion, anio_inauguracion, id_categoria) VALUES (?, ?, ?, ?)`
	insertHotelPhoneSQL = `INSERT INTO telefonos_hotel (id_hotel, telefono) VALUES (?, ?)`
	listHotelsSQL       = `SELECT id_hotel, nombre, direccion, anio_inauguracion FROM hotel ORDER BY nombre`
	getHotelSQL         = `SELECT id_hotel, nombre, direccion, anio_inauguracion, id_categoria FROM hotel WHERE id_hotel = ?`
	hotelPhonesSQL      = `SELECT telefono FROM telefonos_hotel WHERE id_hotel = ? ORDER BY telefono`
	updateHotelSQL      = `
UPDATE hotel SET
  nombre       = COALESCE(?, nombre),
  direccion    = COALESCE(?, direccion),
  id_categoria = COALESCE(?, id_categoria)
WHERE id_hotel = ?`
	deleteHotelSQL = `DELETE FROM hotel WHERE id_hotel = ?`
)

const (
	insertRoomTypeSQL = `INSERT INTO tipo_habitacion (descripcion, capacidad, valor) VALUES (?, ?, ?)`
	listRoomTypesSQL  = `SELECT id_tipo, descripcion, capacidad, valor FROM tipo_habitacion ORDER BY descripcion`
	getRoomTypeSQL    = `SELECT id_tipo, descripcion, capacidad, valor FROM tipo_habitacion WHERE id_tipo = ?`
	updateRoomTypeSQL = `
UPDATE tipo_habitacion SET
  descripcion = COALESCE(?, descripcion),
  capacidad   = COALESCE(?, capacidad),
  valor       = COALESCE(?, valor)
WHERE id_tipo = ?`
	deleteRoomTypeSQL = `DELETE FROM tipo_habitacion WHERE id_tipo = ?`
)

const (
	insertRoomSQL = `INSERT INTO habitacion (numero_habitacion, id_hotel, id_tipo, ocupado) VALUES (?, ?, ?, FALSE)`
	listRoomsSQL  = `
SELECT h.id_habitacion, h.numero_habitacion, ho.nombre, th.descripcion, h.ocupado
FROM habitacion h
JOIN hotel ho ON h.id_hotel = ho.id_hotel
JOIN tipo_habitacion th ON h.id_tipo = th.id_tipo
ORDER BY ho.nombre, h.numero_habitacion`
	getRoomSQL    = `SELECT id_habitacion, numero_habitacion, id_hotel, id_tipo, ocupado FROM habitacion WHERE id_habitacion = ?`
	updateRoomSQL = `UPDATE habitacion SET numero_habitacion = COALESCE(?, numero_habitacion) WHERE id_habitacion = ?`
	deleteRoomSQL = `DELETE FROM habitacion WHERE id_habitacion = ?`
)

const (
	insertAgencySQL = `INSERT INTO agencia_viajes (nombre) VALUES (?)`
	listAgenciesSQL = `SELECT id_agencia, nombre FROM agencia_viajes ORDER BY nombre`
	getAgencySQL    = `SELECT id_agencia, nombre FROM agencia_viajes WHERE id_agencia = ?`
	updateAgencySQL = `UPDATE agencia_viajes SET nombre = COALESCE(?, nombre) WHERE id_agencia = ?`
	deleteAgencySQL = `DELETE FROM agencia_viajes WHERE id_agencia = ?`
)

const (
	insertServiceSQL = `INSERT INTO servicio_adicional (nombre, costo) VALUES (?, ?)`
	listServicesSQL  = `SELECT id_servicio, nombre, costo FROM servicio_adicional ORDER BY nombre`
	getServiceSQL    = `SELECT id_servicio, nombre, costo FROM servicio_adicional WHERE id_servicio = ?`
	updateServiceSQL = `
UPDATE servicio_adicional SET
  nombre = COALESCE(?, nombre),
  costo  = COALESCE(?, costo)
WHERE id_servicio = ?`
	deleteServiceSQL = `DELETE FROM servicio_adicional WHERE id_servicio = ?`
)

const (
	insertGuestSQL      = `INSERT INTO huesped (numero_id, tipo_id, nombre, direccion) VALUES (?, ?, ?, ?)`
	insertGuestPhoneSQL = `INSERT INTO telefonos_huesped (numero_id, telefono) VALUES (?, ?)`
	listGuestsSQL       = `SELECT numero_id, nombre, tipo_id FROM huesped ORDER BY nombre`
	getGuestSQL         = `SELECT numero_id, tipo_id, nombre, direccion FROM huesped WHERE numero_id = ?`
	guestPhonesSQL      = `SELECT telefono FROM telefonos_huesped WHERE numero_id = ? ORDER BY telefono`
	updateGuestSQL      = `
UPDATE huesped SET
  nombre    = COALESCE(?, nombre),
  direccion = COALESCE(?, direccion)
WHERE numero_id = ?`
	deleteGuestSQL = `DELETE FROM huesped WHERE numero_id = ?`
)

// Existence probes used after an UPDATE that changed nothing.
const (
	categoryExistsSQL = `SELECT 1 FROM categoria WHERE id_categoria = ?`
	hotelExistsSQL    = `SELECT 1 FROM hotel WHERE id_hotel = ?`
	roomTypeExistsSQL = `SELECT 1 FROM tipo_habitacion WHERE id_tipo = ?`
	roomExistsSQL     = `SELECT 1 FROM habitacion WHERE id_habitacion = ?`
	agencyExistsSQL   = `SELECT 1 FROM agencia_viajes WHERE id_agencia = ?`
	serviceExistsSQL  = `SELECT 1 FROM servicio_adicional WHERE id_servicio = ?`
)

package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SGH Schedule Generation API",
        "description": "Automatic timetable generation for courses, teachers and their weekly availability.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Schedules", "description": "Timetable generation, run history and exports"}
    ],
    "paths": {
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate schedules for every course without one",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Finalized run", "schema": {"$ref": "#/definitions/GenerationResultEnvelope"}},
                    "400": {"description": "Invalid period", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/history": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List generation runs, newest first",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer", "minimum": 1},
                    {"name": "size", "in": "query", "type": "integer", "minimum": 1, "maximum": 100}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/export/course/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download the timetable of a course",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "xlsx", "csv"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "404": {"description": "Course or schedules not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/export/teacher/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download the timetable of a teacher",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "xlsx", "csv"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "404": {"description": "Teacher or schedules not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/export/courses": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download every course timetable grouped by course",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "xlsx", "csv"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "404": {"description": "No schedules stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/export/teachers": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download every teacher timetable grouped by teacher",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "xlsx", "csv"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "404": {"description": "No schedules stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["periodStart", "periodEnd"],
            "properties": {
                "periodStart": {"type": "string", "format": "date"},
                "periodEnd": {"type": "string", "format": "date"},
                "dryRun": {"type": "boolean"},
                "force": {"type": "boolean"},
                "params": {"type": "string", "maxLength": 500}
            }
        },
        "UnavailabilityRecord": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "courseName": {"type": "string"},
                "teacherId": {"type": "string", "x-nullable": true},
                "teacherName": {"type": "string", "x-nullable": true},
                "reason": {"type": "string", "enum": ["NO_TEACHER_ASSIGNED", "NO_AVAILABILITY_DEFINED", "CONFLICTS_WITH_EXISTING", "NO_TIME_SLOTS_AVAILABLE"]},
                "description": {"type": "string"}
            }
        },
        "GenerationResult": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "executedBy": {"type": "string"},
                "executedAt": {"type": "string", "format": "date-time"},
                "status": {"type": "string", "enum": ["RUNNING", "SUCCESS", "FAILED"]},
                "totalGenerated": {"type": "integer"},
                "message": {"type": "string"},
                "periodStart": {"type": "string", "format": "date"},
                "periodEnd": {"type": "string", "format": "date"},
                "dryRun": {"type": "boolean"},
                "force": {"type": "boolean"},
                "params": {"type": "string"},
                "coursesWithoutAvailability": {"type": "array", "items": {"$ref": "#/definitions/UnavailabilityRecord"}},
                "totalCoursesWithoutAvailability": {"type": "integer"}
            }
        },
        "GenerationResultEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/GenerationResult"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

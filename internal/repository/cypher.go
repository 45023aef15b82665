package repository

const upsertNodeCypher = `
MERGE (n:TraceNode {nodeId: $nodeId})
SET n.name = $name,
    n.type = $type
`

const upsertLotCypher = `
MERGE (l:Lot {lotId: $lotId})
ON CREATE SET l.createdAt = $createdAt
SET l.status = $status,
    l.contamination = $contamination,
    l.creator = $creator
`

const recordMovementCypher = `
MATCH (l:Lot {lotId: $lotId})
MERGE (m:Movement {movementId: $movementId})
ON CREATE SET m.recordedAt = timestamp()
SET m.timestamp = $timestamp
MERGE (l)-[:HAS_MOVEMENT]->(m)
WITH l, m
OPTIONAL MATCH (src:TraceNode {nodeId: $fromId})
OPTIONAL MATCH (dst:TraceNode {nodeId: $toId})
FOREACH (_ IN CASE WHEN src IS NULL THEN [] ELSE [1] END | MERGE (m)-[:FROM]->(src))
FOREACH (_ IN CASE WHEN dst IS NULL THEN [] ELSE [1] END | MERGE (m)-[:TO]->(dst))
RETURN m.movementId AS movementId
`

const getLotCypher = `
MATCH (l:Lot {lotId: $lotId})
RETURN l.lotId AS lotId,
       l.status AS status,
       l.contamination AS contamination,
       l.creator AS creator,
       l.createdAt AS createdAt
`

const listLotsCypher = `
MATCH (l:Lot)
WHERE $status = '' OR l.status = $status
RETURN l.lotId AS lotId,
       l.status AS status,
       l.contamination AS contamination,
       l.creator AS creator,
       l.createdAt AS createdAt
ORDER BY l.createdAt DESC, l.lotId
SKIP $skip
LIMIT $limit
`

const countLotsCypher = `
MATCH (l:Lot)
WHERE $status = '' OR l.status = $status
RETURN count(l) AS total
`

// One row per movement, or a single row of nulls for a lot without movements.
const lotTraceCypher = `
MATCH (l:Lot {lotId: $lotId})
OPTIONAL MATCH (l)-[:HAS_MOVEMENT]->(m:Movement)
OPTIONAL MATCH (m)-[:FROM]->(src:TraceNode)
OPTIONAL MATCH (m)-[:TO]->(dst:TraceNode)
RETURN l.lotId AS lotId,
       l.status AS status,
       m.timestamp AS timestamp,
       src.nodeId AS sourceId,
       src.name AS sourceName,
       src.type AS sourceType,
       dst.nodeId AS targetId,
       dst.name AS targetName,
       dst.type AS targetType
ORDER BY m.timestamp, m.recordedAt, m.movementId
`

const lotMovementsCypher = `
MATCH (l:Lot {lotId: $lotId})-[:HAS_MOVEMENT]->(m:Movement)
OPTIONAL MATCH (m)-[:FROM]->(src:TraceNode)
OPTIONAL MATCH (m)-[:TO]->(dst:TraceNode)
RETURN m.movementId AS movementId,
       m.timestamp AS timestamp,
       src.nodeId AS sourceId,
       src.name AS sourceName,
       src.type AS sourceType,
       dst.nodeId AS targetId,
       dst.name AS targetName,
       dst.type AS targetType
ORDER BY m.timestamp, m.recordedAt, m.movementId
`

const lotsByNodeCypher = `
MATCH (l:Lot)-[:HAS_MOVEMENT]->(:Movement)-[:FROM|TO]->(:TraceNode {nodeId: $nodeId})
RETURN DISTINCT l.lotId AS lotId
`

const suspectNodesCypher = `
MATCH (l:Lot)-[:HAS_MOVEMENT]->(:Movement)-[:FROM|TO]->(n:TraceNode)
WHERE l.status IN $statuses
RETURN n.nodeId AS nodeId,
       n.name AS name,
       n.type AS type,
       count(*) AS occurrences,
       collect(DISTINCT l.lotId) AS lotIds
ORDER BY occurrences DESC, nodeId
`
